package handler

import (
	"onboard/internal/check/configure"
	"onboard/internal/check/models"
	"onboard/internal/check/service"
)

// ConfigureResponse is the HTTP response for POST /checks/configure.
type ConfigureResponse struct {
	Selection             SelectionDTO           `json:"selection"`
	AvailableCheckTypes   []string               `json:"available_check_types"`
	Blocked               bool                   `json:"blocked"`
	AutoSelectedCheckType string                 `json:"auto_selected_check_type,omitempty"`
	CheckType             string                 `json:"check_type,omitempty"`
	Category              string                 `json:"category,omitempty"`
	SubRole               string                 `json:"sub_role,omitempty"`
	SubRoles              []string               `json:"sub_roles"`
	Options               []OptionResponse       `json:"options"`
	Fields                []string               `json:"fields"`
	DocumentMatch         *DocumentMatchResponse `json:"document_match,omitempty"`
	SearchLocked          bool                   `json:"search_locked"`
	DefaultJurisdiction   string                 `json:"default_jurisdiction,omitempty"`
	KnownAddress          string                 `json:"known_address,omitempty"`
	Degraded              bool                   `json:"degraded"`
}

type OptionResponse struct {
	Key            string `json:"key"`
	Visible        bool   `json:"visible"`
	DefaultChecked bool   `json:"default_checked"`
	Disabled       bool   `json:"disabled"`
	Checked        bool   `json:"checked"`
	State          string `json:"state"`
}

type DocumentMatchResponse struct {
	Status       string   `json:"status"`
	DocumentType string   `json:"document_type,omitempty"`
	FrontImageID string   `json:"front_image_id,omitempty"`
	BackImageID  string   `json:"back_image_id,omitempty"`
	CandidateIDs []string `json:"candidate_ids,omitempty"`
}

// ValidateResponse is the HTTP response for POST /checks/validate.
type ValidateResponse struct {
	Valid      bool               `json:"valid"`
	Violations []models.Violation `json:"violations"`
}

// SubmitResponse is the HTTP response for an accepted POST /checks/submit.
type SubmitResponse struct {
	Accepted    bool     `json:"accepted"`
	References  []string `json:"references"`
	Fingerprint string   `json:"fingerprint"`
}

// RejectedResponse is returned with 422 when submitted answers are invalid.
type RejectedResponse struct {
	Error      string             `json:"error"`
	Violations []models.Violation `json:"violations"`
}

// FromConfigureResult converts the service result to an HTTP response.
func FromConfigureResult(res *service.ConfigureResult) *ConfigureResponse {
	cfg := res.Configuration
	resp := &ConfigureResponse{
		Selection:             selectionToDTO(res.Selection),
		AvailableCheckTypes:   make([]string, 0, len(cfg.AvailableCheckTypes)),
		Blocked:               cfg.Blocked,
		AutoSelectedCheckType: string(cfg.AutoSelectedCheckType),
		CheckType:             string(cfg.CheckType),
		Category:              string(cfg.Routing.Category),
		SubRole:               string(cfg.Routing.SubRole),
		SubRoles:              make([]string, 0, len(cfg.SubRoles)),
		Options:               make([]OptionResponse, 0, len(cfg.Options)),
		Fields:                make([]string, 0),
		SearchLocked:          cfg.SearchLocked,
		DefaultJurisdiction:   cfg.DefaultJurisdiction,
		KnownAddress:          cfg.KnownAddress,
		Degraded:              cfg.Degraded,
	}
	for _, ct := range cfg.AvailableCheckTypes {
		resp.AvailableCheckTypes = append(resp.AvailableCheckTypes, string(ct))
	}
	for _, role := range cfg.SubRoles {
		resp.SubRoles = append(resp.SubRoles, string(role))
	}
	for _, o := range cfg.Options {
		resp.Options = append(resp.Options, OptionResponse{
			Key:            string(o.Key),
			Visible:        o.Visible,
			DefaultChecked: o.DefaultChecked,
			Disabled:       o.Disabled,
			Checked:        o.Checked,
			State:          o.State.String(),
		})
	}
	for _, f := range cfg.Fields.List() {
		resp.Fields = append(resp.Fields, string(f))
	}
	if cfg.DocumentMatch.Status != "" {
		resp.DocumentMatch = documentMatchToResp(cfg.DocumentMatch)
	}
	return resp
}

func documentMatchToResp(m configure.DocumentMatch) *DocumentMatchResponse {
	out := &DocumentMatchResponse{
		Status:       string(m.Status),
		DocumentType: string(m.DocumentType),
		FrontImageID: m.FrontImageID,
		BackImageID:  m.BackImageID,
	}
	for _, c := range m.Candidates {
		out.CandidateIDs = append(out.CandidateIDs, c.ID)
	}
	return out
}

func selectionToDTO(sel models.CheckSelection) SelectionDTO {
	dto := SelectionDTO{
		CheckType:      string(sel.CheckType),
		CheckTypeState: sel.CheckTypeState.String(),
		Options:        make(map[string]ToggleDTO, len(sel.Options)),
		RuleID:         sel.RuleID,
		Category:       string(sel.Category),
		SubRole:        string(sel.SubRole),
	}
	for key, t := range sel.Options {
		dto.Options[string(key)] = ToggleDTO{On: t.On, State: t.State.String()}
	}
	return dto
}

// FromValidateResult converts the service result to an HTTP response.
func FromValidateResult(res *service.ValidateResult) *ValidateResponse {
	return &ValidateResponse{
		Valid:      res.Validation.Valid(),
		Violations: nonNil(res.Validation.Violations()),
	}
}

// FromSubmitResult converts an accepted submission to an HTTP response.
func FromSubmitResult(res *service.SubmitResult) *SubmitResponse {
	resp := &SubmitResponse{
		Accepted:    res.Accepted,
		References:  make([]string, 0, len(res.Payloads)),
		Fingerprint: res.Fingerprint,
	}
	for _, p := range res.Payloads {
		resp.References = append(resp.References, p.Reference)
	}
	return resp
}

func nonNil(v []models.Violation) []models.Violation {
	if v == nil {
		return []models.Violation{}
	}
	return v
}
