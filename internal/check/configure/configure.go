// Package configure derives what a staff user is offered for a client:
// available check types, the auto-selected check, matter routing, sub-option
// visibility and defaults, and the visible answer fields.
//
// Derivation is pure and never fails. Absent or contradictory context
// degrades to the most conservative configuration.
package configure

import (
	"slices"

	"onboard/internal/check/models"
	"onboard/internal/check/normalize"
	"onboard/pkg/attrs"
)

// Configuration is everything derived for one context and selection.
type Configuration struct {
	AvailableCheckTypes   []models.CheckType
	Blocked               bool
	AutoSelectedCheckType models.CheckType
	CheckType             models.CheckType
	Routing               Routing
	SubRoles              []models.SubRole
	Options               []OptionConfig
	Fields                FieldSet
	DocumentMatch         DocumentMatch
	SearchLocked          bool
	DefaultJurisdiction   string
	KnownAddress          string
	Degraded              bool
}

// IsAvailable reports whether ct is offered.
func (c Configuration) IsAvailable(ct models.CheckType) bool {
	return slices.Contains(c.AvailableCheckTypes, ct)
}

// Option returns the derived state of key.
func (c Configuration) Option(key models.OptionKey) (OptionConfig, bool) {
	for _, o := range c.Options {
		if o.Key == key {
			return o, true
		}
	}
	return OptionConfig{}, false
}

// Checked reports whether key is effectively on.
func (c Configuration) Checked(key models.OptionKey) bool {
	o, ok := c.Option(key)
	return ok && o.Checked
}

// Derive computes the configuration for ctx and the current selection.
func Derive(ctx models.ClientContext, sel models.CheckSelection) Configuration {
	cfg := Configuration{
		AvailableCheckTypes: AvailableCheckTypes(ctx.EntityKind),
		Blocked:             ctx.EntityKind == models.EntityCharity,
		Degraded:            !ctx.EntityKind.IsKnown(),
	}
	if cfg.Blocked {
		return cfg
	}

	if !cfg.Degraded {
		cfg.AutoSelectedCheckType = AutoSelectCheckType(ctx)
	}
	cfg.CheckType = sel.CheckType
	if cfg.CheckType == "" || sel.CheckTypeState == models.ToggleAutoSet {
		if cfg.AutoSelectedCheckType != "" {
			cfg.CheckType = cfg.AutoSelectedCheckType
		}
	}

	cfg.Routing = effectiveRouting(Route(ctx.Matter.WorkType, ctx.Matter.Relation), sel)
	cfg.SubRoles = SubRolesFor(cfg.Routing.Category)
	cfg.Options = deriveOptions(ctx, cfg.CheckType, cfg.Routing, sel, cfg.Degraded)
	cfg.SearchLocked = cfg.CheckType == models.CheckBusinessVerification && len(ctx.RegisteredBusinessData) > 0
	cfg.DefaultJurisdiction = defaultJurisdiction(ctx)
	if ctx.KnownAddress != nil {
		cfg.KnownAddress = normalize.FormatAddressForDisplay(*ctx.KnownAddress)
	}
	if cfg.CheckType == models.CheckIdentityScreening && cfg.Checked(models.OptionIdentityDocument) {
		cfg.DocumentMatch = MatchDocuments(ctx)
	}
	cfg.Fields = deriveFields(cfg, sel)
	return cfg
}

func deriveFields(cfg Configuration, sel models.CheckSelection) FieldSet {
	var fs FieldSet
	fs.add(FieldCheckType, FieldReference)

	switch cfg.CheckType {
	case models.CheckIdentityScreening:
		if cfg.Checked(models.OptionScreening) {
			fs.add(FieldFirstName, FieldLastName, FieldDateOfBirth)
			if cfg.Checked(models.OptionScreeningAddress) {
				fs.add(FieldAddress)
			}
		}
		if cfg.Checked(models.OptionIdentityDocument) {
			fs.add(FieldDocumentType, FieldFrontImage, FieldBackImage)
		}
	case models.CheckElectronicVerification:
		fs.add(FieldCategory)
		if cfg.Routing.HasSubRoles() {
			fs.add(FieldSubRole)
		}
		fs.add(FieldFirstName, FieldLastName, FieldMobile, FieldEmail)
	case models.CheckBusinessVerification:
		fs.add(FieldJurisdiction)
		if !cfg.SearchLocked {
			fs.add(FieldRegisteredName, FieldRegisteredNumber)
		}
		fs.add(FieldLinkedRecord)
		if cfg.Checked(models.OptionRuleBased) || sel.RuleID != "" {
			fs.add(FieldRuleID)
		}
	}
	return fs
}

// defaultJurisdiction picks the ISO alpha-3 jurisdiction to preselect: the
// registry record's, then the known address country, then the crosswalk default.
func defaultJurisdiction(ctx models.ClientContext) string {
	if code := attrs.FirstString(ctx.RegisteredBusinessData, "jurisdiction", "country_code"); code != "" {
		iso3, _ := normalize.CountryCodeToThreeLetter(code)
		return iso3
	}
	if ctx.KnownAddress != nil && ctx.KnownAddress.Country != "" {
		iso3, _ := normalize.CountryCodeToThreeLetter(ctx.KnownAddress.Country)
		return iso3
	}
	return normalize.Default().DefaultJurisdiction().ThreeLetter
}

// ApplyDefaults returns sel with every field the user has not overridden set
// to its derived default. User-overridden values are never touched, so
// repeated recomputation cannot re-force a default the user changed.
func ApplyDefaults(cfg Configuration, sel models.CheckSelection) models.CheckSelection {
	out := sel.Clone()
	if out.CheckTypeState != models.ToggleUserOverridden && cfg.AutoSelectedCheckType != "" &&
		out.CheckType != cfg.AutoSelectedCheckType {
		out = models.CheckSelection{
			CheckType:      cfg.AutoSelectedCheckType,
			CheckTypeState: models.ToggleAutoSet,
			Options:        make(map[models.OptionKey]models.Toggle),
			Category:       sel.Category,
			SubRole:        sel.SubRole,
		}
	}
	if out.CheckType != cfg.CheckType {
		return out
	}
	for _, o := range cfg.Options {
		if out.Option(o.Key).State == models.ToggleUserOverridden {
			continue
		}
		out.Options[o.Key] = models.Toggle{On: o.Checked, State: models.ToggleAutoSet}
	}
	return out
}
