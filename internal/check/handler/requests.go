package handler

import (
	"strings"
	"time"

	"onboard/internal/check/models"
	"onboard/internal/check/service"
	dErrors "onboard/pkg/domain-errors"
)

const (
	maxClientIDLength = 128
	maxTags           = 32
	maxImages         = 50
	maxTextLength     = 256
)

// CheckRequest is the HTTP request body shared by configure, validate and submit.
type CheckRequest struct {
	ClientID  string           `json:"client_id"`
	Client    ClientContextDTO `json:"client"`
	Selection SelectionDTO     `json:"selection"`
	Answers   AnswersDTO       `json:"answers"`

	// Parsed values (populated by Validate)
	parsedCheckType models.CheckType
	parsedCategory  models.MatterCategory
}

type ClientContextDTO struct {
	EntityKind             string               `json:"entity_kind"`
	Tags                   []string             `json:"tags"`
	Matter                 MatterDTO            `json:"matter"`
	IdentityImages         []IdentityImageDTO   `json:"identity_images"`
	SupportDocuments       []SupportDocumentDTO `json:"support_documents"`
	Icons                  IconsDTO             `json:"icons"`
	KnownAddress           *models.Address      `json:"known_address"`
	KnownPreviousAddress   *models.Address      `json:"known_previous_address"`
	RegisteredBusinessData map[string]any       `json:"registered_business_data"`
}

type MatterDTO struct {
	Reference   string `json:"reference"`
	WorkType    string `json:"work_type"`
	Relation    string `json:"relation"`
	Description string `json:"description"`
}

type IdentityImageDTO struct {
	ID           string    `json:"id"`
	DocumentType string    `json:"document_type"`
	Side         string    `json:"side"`
	UploadedAt   time.Time `json:"uploaded_at"`
	Uploader     string    `json:"uploader"`
	URL          string    `json:"url"`
}

type SupportDocumentDTO struct {
	Kind       string    `json:"kind"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type IconsDTO struct {
	AddressIDConfirmed bool `json:"address_id_confirmed"`
	PhotoIDConfirmed   bool `json:"photo_id_confirmed"`
	LikenessConfirmed  bool `json:"likeness_confirmed"`
}

type ToggleDTO struct {
	On    bool   `json:"on"`
	State string `json:"state"`
}

type SelectionDTO struct {
	CheckType      string               `json:"check_type"`
	CheckTypeState string               `json:"check_type_state"`
	Options        map[string]ToggleDTO `json:"options"`
	RuleID         string               `json:"rule_id"`
	Category       string               `json:"category"`
	SubRole        string               `json:"sub_role"`
}

type AnswersDTO struct {
	Reference        string               `json:"reference"`
	FirstName        string               `json:"first_name"`
	MiddleName       string               `json:"middle_name"`
	LastName         string               `json:"last_name"`
	DateOfBirth      string               `json:"date_of_birth"`
	Address          *models.Address      `json:"address"`
	DocumentType     string               `json:"document_type"`
	FrontImageID     string               `json:"front_image_id"`
	BackImageID      string               `json:"back_image_id"`
	Mobile           string               `json:"mobile"`
	MobileCountry    string               `json:"mobile_country"`
	Email            string               `json:"email"`
	Jurisdiction     string               `json:"jurisdiction"`
	RegisteredName   string               `json:"registered_name"`
	RegisteredNumber string               `json:"registered_number"`
	LinkedRecord     *models.LinkedRecord `json:"linked_record"`
}

// Validate checks request shape only. Answer content is the engine's job
// and is reported as violations, not request errors.
func (r *CheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if len(r.ClientID) > maxClientIDLength {
		return dErrors.New(dErrors.CodeValidation, "client_id must be at most 128 characters")
	}
	if len(r.Client.Tags) > maxTags {
		return dErrors.New(dErrors.CodeValidation, "client.tags has too many entries")
	}
	if len(r.Client.IdentityImages) > maxImages || len(r.Client.SupportDocuments) > maxImages {
		return dErrors.New(dErrors.CodeValidation, "client has too many documents")
	}
	if len(r.Answers.Reference) > maxTextLength || len(r.Selection.RuleID) > maxTextLength {
		return dErrors.New(dErrors.CodeValidation, "reference and rule_id must be at most 256 characters")
	}

	// Required fields
	r.ClientID = strings.TrimSpace(r.ClientID)
	if r.ClientID == "" {
		return dErrors.New(dErrors.CodeValidation, "client_id is required")
	}

	r.Selection.CheckType = strings.TrimSpace(r.Selection.CheckType)
	if r.Selection.CheckType != "" {
		ct, ok := models.ParseCheckType(r.Selection.CheckType)
		if !ok {
			return dErrors.New(dErrors.CodeValidation, "selection.check_type is not a known check type")
		}
		r.parsedCheckType = ct
	}
	r.Selection.Category = strings.TrimSpace(r.Selection.Category)
	if r.Selection.Category != "" {
		c, ok := models.ParseMatterCategory(r.Selection.Category)
		if !ok {
			return dErrors.New(dErrors.CodeValidation, "selection.category is not a known category")
		}
		r.parsedCategory = c
	}
	return nil
}

// ToServiceRequest converts the validated DTO into the service request.
func (r *CheckRequest) ToServiceRequest() service.Request {
	return service.Request{
		ClientID:  r.ClientID,
		Context:   r.Client.toModel(),
		Selection: r.toSelection(),
		Answers:   r.Answers.toModel(),
	}
}

func (c ClientContextDTO) toModel() models.ClientContext {
	ctx := models.ClientContext{
		EntityKind: models.EntityKind(strings.ToLower(strings.TrimSpace(c.EntityKind))),
		Tags:       models.NewTags(c.Tags...),
		Matter: models.Matter{
			Reference:   c.Matter.Reference,
			WorkType:    c.Matter.WorkType,
			Relation:    c.Matter.Relation,
			Description: c.Matter.Description,
		},
		Icons: models.Icons{
			AddressIDConfirmed: c.Icons.AddressIDConfirmed,
			PhotoIDConfirmed:   c.Icons.PhotoIDConfirmed,
			LikenessConfirmed:  c.Icons.LikenessConfirmed,
		},
		KnownAddress:           c.KnownAddress,
		KnownPreviousAddress:   c.KnownPreviousAddress,
		RegisteredBusinessData: c.RegisteredBusinessData,
	}
	for _, img := range c.IdentityImages {
		ctx.IdentityImages = append(ctx.IdentityImages, models.IdentityImage{
			ID:           img.ID,
			DocumentKind: models.DocumentKind(img.DocumentType),
			Side:         models.ImageSide(img.Side),
			UploadedAt:   img.UploadedAt,
			Uploader:     img.Uploader,
			URL:          img.URL,
		})
	}
	for _, doc := range c.SupportDocuments {
		ctx.SupportDocuments = append(ctx.SupportDocuments, models.SupportDocument{
			Kind:       models.SupportDocumentKind(doc.Kind),
			URL:        doc.URL,
			UploadedAt: doc.UploadedAt,
		})
	}
	return ctx
}

func (r *CheckRequest) toSelection() models.CheckSelection {
	sel := models.CheckSelection{
		CheckType:      r.parsedCheckType,
		CheckTypeState: models.ParseToggleState(r.Selection.CheckTypeState),
		Options:        make(map[models.OptionKey]models.Toggle, len(r.Selection.Options)),
		RuleID:         strings.TrimSpace(r.Selection.RuleID),
		Category:       r.parsedCategory,
		SubRole:        models.SubRole(strings.TrimSpace(r.Selection.SubRole)),
	}
	for key, t := range r.Selection.Options {
		sel.Options[models.OptionKey(key)] = models.Toggle{On: t.On, State: models.ParseToggleState(t.State)}
	}
	return sel
}

func (a AnswersDTO) toModel() models.Answers {
	return models.Answers{
		Reference:        a.Reference,
		FirstName:        a.FirstName,
		MiddleName:       a.MiddleName,
		LastName:         a.LastName,
		DateOfBirth:      a.DateOfBirth,
		Address:          a.Address,
		DocumentType:     models.DocumentKind(a.DocumentType),
		FrontImageID:     a.FrontImageID,
		BackImageID:      a.BackImageID,
		Mobile:           a.Mobile,
		MobileCountry:    a.MobileCountry,
		Email:            a.Email,
		Jurisdiction:     a.Jurisdiction,
		RegisteredName:   a.RegisteredName,
		RegisteredNumber: a.RegisteredNumber,
		LinkedRecord:     a.LinkedRecord,
	}
}
