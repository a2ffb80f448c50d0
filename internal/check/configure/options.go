package configure

import (
	"slices"

	"onboard/internal/check/models"
)

// OptionConfig is the derived state of one sub-option. Checked is the
// effective value: the user's choice once overridden, otherwise the default.
type OptionConfig struct {
	Key            models.OptionKey
	Visible        bool
	DefaultChecked bool
	Disabled       bool
	Checked        bool
	State          models.ToggleState
}

var optionCatalogue = map[models.CheckType][]models.OptionKey{
	models.CheckIdentityScreening: {
		models.OptionScreening,
		models.OptionScreeningAddress,
		models.OptionIdentityDocument,
		models.OptionMonitoring,
	},
	models.CheckElectronicVerification: {
		models.OptionProofOfAddress,
		models.OptionSourceOfFunds,
		models.OptionBankStatements,
		models.OptionGiftDeclaration,
		models.OptionProofOfOwnership,
		models.OptionScreening,
		models.OptionMonitoring,
	},
	models.CheckBusinessVerification: {
		models.OptionCompanyReport,
		models.OptionOfficers,
		models.OptionScreening,
		models.OptionRuleBased,
		models.OptionMonitoring,
	},
}

// OptionsFor lists a check type's sub-options in display order.
func OptionsFor(ct models.CheckType) []models.OptionKey {
	return slices.Clone(optionCatalogue[ct])
}

var documentOptions = []models.OptionKey{
	models.OptionProofOfAddress,
	models.OptionSourceOfFunds,
	models.OptionBankStatements,
	models.OptionGiftDeclaration,
	models.OptionProofOfOwnership,
}

var sourceOfFundsOptions = []models.OptionKey{
	models.OptionSourceOfFunds,
	models.OptionBankStatements,
	models.OptionGiftDeclaration,
}

// documentRule is one row of the document option table. An empty subRole
// matches any sub-role of the category, including none.
type documentRule struct {
	category models.MatterCategory
	subRole  models.SubRole
	visible  []models.OptionKey
	checked  []models.OptionKey
}

var documentRules = []documentRule{
	{
		category: models.CategoryConveyancing, subRole: models.SubRolePurchaser,
		visible: []models.OptionKey{models.OptionProofOfAddress, models.OptionSourceOfFunds, models.OptionBankStatements, models.OptionGiftDeclaration},
		checked: []models.OptionKey{models.OptionProofOfAddress, models.OptionSourceOfFunds, models.OptionBankStatements},
	},
	{
		category: models.CategoryConveyancing, subRole: models.SubRoleSeller,
		visible: []models.OptionKey{models.OptionProofOfAddress, models.OptionProofOfOwnership},
		checked: []models.OptionKey{models.OptionProofOfAddress, models.OptionProofOfOwnership},
	},
	{
		category: models.CategoryConveyancing, subRole: models.SubRoleRemortgagor,
		visible: []models.OptionKey{models.OptionProofOfAddress, models.OptionProofOfOwnership, models.OptionSourceOfFunds, models.OptionBankStatements},
		checked: []models.OptionKey{models.OptionProofOfAddress, models.OptionProofOfOwnership},
	},
	{
		category: models.CategoryConveyancing, subRole: models.SubRoleGiftor,
		visible: []models.OptionKey{models.OptionProofOfAddress, models.OptionSourceOfFunds, models.OptionBankStatements, models.OptionGiftDeclaration},
		checked: []models.OptionKey{models.OptionProofOfAddress, models.OptionSourceOfFunds, models.OptionGiftDeclaration},
	},
	{
		category: models.CategoryConveyancing, subRole: models.SubRoleOther,
		visible: documentOptions,
		checked: []models.OptionKey{models.OptionProofOfAddress},
	},
	{
		category: models.CategoryOtherProperty, subRole: models.SubRoleTenant,
		visible: []models.OptionKey{models.OptionProofOfAddress, models.OptionBankStatements},
		checked: []models.OptionKey{models.OptionProofOfAddress},
	},
	{
		category: models.CategoryOtherProperty, subRole: models.SubRoleLandlord,
		visible: []models.OptionKey{models.OptionProofOfAddress, models.OptionProofOfOwnership},
		checked: []models.OptionKey{models.OptionProofOfAddress, models.OptionProofOfOwnership},
	},
	{
		category: models.CategoryOtherProperty, subRole: models.SubRoleOccupier,
		visible: []models.OptionKey{models.OptionProofOfAddress},
		checked: []models.OptionKey{models.OptionProofOfAddress},
	},
	{
		category: models.CategoryPrivateClient,
		visible:  []models.OptionKey{models.OptionProofOfAddress, models.OptionSourceOfFunds, models.OptionBankStatements},
		checked:  []models.OptionKey{models.OptionProofOfAddress},
	},
	{
		category: models.CategoryGeneral,
		visible:  []models.OptionKey{models.OptionProofOfAddress, models.OptionSourceOfFunds},
		checked:  []models.OptionKey{models.OptionProofOfAddress},
	},
}

type documentDecision struct {
	visible map[models.OptionKey]bool
	checked map[models.OptionKey]bool
}

// sourceOfFundsPolicy is the single rule for source-of-funds options driven
// by upstream tags. A source-of-funds request shows and pre-checks them; an
// enhanced-ID request without one leaves them unchecked.
func sourceOfFundsPolicy(tags models.Tags, d *documentDecision) {
	switch {
	case tags.Has(models.TagSourceOfFunds):
		for _, k := range sourceOfFundsOptions {
			d.visible[k] = true
			d.checked[k] = true
		}
	case tags.Has(models.TagEnhancedID):
		for _, k := range sourceOfFundsOptions {
			d.checked[k] = false
		}
	}
}

// allDocumentsVisible shows every document option and pre-checks none.
func allDocumentsVisible() documentDecision {
	d := documentDecision{
		visible: make(map[models.OptionKey]bool),
		checked: make(map[models.OptionKey]bool),
	}
	for _, k := range documentOptions {
		d.visible[k] = true
	}
	return d
}

// decideDocuments looks up the document table. With no matching row every
// document option is shown and none is pre-checked.
func decideDocuments(ctx models.ClientContext, routing Routing) documentDecision {
	idx := slices.IndexFunc(documentRules, func(r documentRule) bool {
		return r.category == routing.Category && (r.subRole == "" || r.subRole == routing.SubRole)
	})
	d := allDocumentsVisible()
	if idx >= 0 {
		d.visible = make(map[models.OptionKey]bool)
		for _, k := range documentRules[idx].visible {
			d.visible[k] = true
		}
		for _, k := range documentRules[idx].checked {
			d.checked[k] = true
		}
	}
	sourceOfFundsPolicy(ctx.Tags, &d)
	return d
}

type optionDefault struct {
	visible  bool
	checked  bool
	disabled bool
}

// optionResolver computes option state in catalogue order so later options
// can depend on the effective value of earlier ones.
type optionResolver struct {
	sel       models.CheckSelection
	effective map[models.OptionKey]bool
	out       []OptionConfig
}

func (r *optionResolver) resolve(key models.OptionKey, def optionDefault) {
	toggle := r.sel.Option(key)
	cfg := OptionConfig{
		Key:            key,
		Visible:        def.visible,
		DefaultChecked: def.visible && def.checked && !def.disabled,
		Disabled:       def.disabled,
		State:          models.ToggleAutoSet,
	}
	cfg.Checked = cfg.DefaultChecked
	if toggle.State == models.ToggleUserOverridden {
		cfg.State = models.ToggleUserOverridden
		cfg.Checked = toggle.On
	}
	if !cfg.Visible || cfg.Disabled {
		cfg.Checked = false
	}
	r.effective[key] = cfg.Checked
	r.out = append(r.out, cfg)
}

func deriveOptions(ctx models.ClientContext, ct models.CheckType, routing Routing, sel models.CheckSelection, conservative bool) []OptionConfig {
	r := &optionResolver{sel: sel, effective: make(map[models.OptionKey]bool)}
	def := func(visible, checked bool) optionDefault {
		return optionDefault{visible: visible, checked: checked && !conservative}
	}

	switch ct {
	case models.CheckIdentityScreening:
		r.resolve(models.OptionScreening, def(true, true))
		knownAddress := ctx.KnownAddress != nil && ctx.KnownAddress.Valid()
		screeningAddress := def(true, knownAddress)
		screeningAddress.disabled = !r.effective[models.OptionScreening]
		r.resolve(models.OptionScreeningAddress, screeningAddress)
		r.resolve(models.OptionIdentityDocument, def(true, ctx.SuitablePhotoIDCount() >= minSuitablePhotoIDs))
	case models.CheckElectronicVerification:
		docs := allDocumentsVisible()
		if !conservative {
			docs = decideDocuments(ctx, routing)
		}
		for _, k := range documentOptions {
			r.resolve(k, def(docs.visible[k], docs.checked[k]))
		}
		r.resolve(models.OptionScreening, def(true, true))
	case models.CheckBusinessVerification:
		r.resolve(models.OptionCompanyReport, def(true, true))
		r.resolve(models.OptionOfficers, def(true, true))
		r.resolve(models.OptionScreening, def(true, false))
		r.resolve(models.OptionRuleBased, def(true, false))
	default:
		return nil
	}

	screening := r.effective[models.OptionScreening]
	r.resolve(models.OptionMonitoring, optionDefault{visible: true, checked: screening && !conservative, disabled: !screening})
	return r.out
}
