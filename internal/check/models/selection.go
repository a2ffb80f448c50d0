package models

import "maps"

// CheckType is the top-level verification product.
type CheckType string

const (
	CheckIdentityScreening      CheckType = "identity_screening"
	CheckElectronicVerification CheckType = "electronic_verification"
	CheckBusinessVerification   CheckType = "business_verification"
)

// ParseCheckType returns the check type for s, or false if unknown.
func ParseCheckType(s string) (CheckType, bool) {
	switch ct := CheckType(s); ct {
	case CheckIdentityScreening, CheckElectronicVerification, CheckBusinessVerification:
		return ct, true
	}
	return "", false
}

// OptionKey names a sub-option within a check type.
type OptionKey string

const (
	OptionScreening        OptionKey = "screening"
	OptionScreeningAddress OptionKey = "screening_address"
	OptionIdentityDocument OptionKey = "identity_document"
	OptionMonitoring       OptionKey = "monitoring"

	OptionProofOfAddress   OptionKey = "proof_of_address"
	OptionSourceOfFunds    OptionKey = "source_of_funds"
	OptionBankStatements   OptionKey = "bank_statements"
	OptionGiftDeclaration  OptionKey = "gift_declaration"
	OptionProofOfOwnership OptionKey = "proof_of_ownership"

	OptionCompanyReport OptionKey = "company_report"
	OptionOfficers      OptionKey = "officers"
	OptionRuleBased     OptionKey = "rule_based"
)

// ToggleState tracks who last decided a field's value.
type ToggleState int

const (
	ToggleUnset ToggleState = iota
	ToggleAutoSet
	ToggleUserOverridden
)

func (s ToggleState) String() string {
	switch s {
	case ToggleAutoSet:
		return "auto_set"
	case ToggleUserOverridden:
		return "user_overridden"
	default:
		return "unset"
	}
}

// ParseToggleState is the inverse of String; unknown values are unset.
func ParseToggleState(s string) ToggleState {
	switch s {
	case "auto_set":
		return ToggleAutoSet
	case "user_overridden":
		return ToggleUserOverridden
	default:
		return ToggleUnset
	}
}

// Toggle is a sub-option value together with its provenance.
type Toggle struct {
	On    bool
	State ToggleState
}

// CheckSelection is the staff user's current choice of check and sub-options.
// Methods return modified copies; a selection value is never shared mutably.
// Category and SubRole are the user's routing choice; empty means the
// routing derived from the matter applies.
type CheckSelection struct {
	CheckType      CheckType
	CheckTypeState ToggleState
	Options        map[OptionKey]Toggle
	RuleID         string
	Category       MatterCategory
	SubRole        SubRole
}

// Option returns the toggle for key (zero Toggle when absent).
func (s CheckSelection) Option(key OptionKey) Toggle {
	return s.Options[key]
}

// Enabled reports whether key is switched on.
func (s CheckSelection) Enabled(key OptionKey) bool {
	return s.Options[key].On
}

// Clone returns a deep copy.
func (s CheckSelection) Clone() CheckSelection {
	out := s
	out.Options = maps.Clone(s.Options)
	if out.Options == nil {
		out.Options = make(map[OptionKey]Toggle)
	}
	return out
}

// WithCheckType records a user choice of check type. Options and rule ID
// belong to the previous check type and are reset.
func (s CheckSelection) WithCheckType(ct CheckType) CheckSelection {
	return CheckSelection{
		CheckType:      ct,
		CheckTypeState: ToggleUserOverridden,
		Options:        make(map[OptionKey]Toggle),
	}
}

// WithOption records a user toggle of key.
func (s CheckSelection) WithOption(key OptionKey, on bool) CheckSelection {
	out := s.Clone()
	out.Options[key] = Toggle{On: on, State: ToggleUserOverridden}
	return out
}

// WithRuleID sets the rule-based workflow identifier.
func (s CheckSelection) WithRuleID(ruleID string) CheckSelection {
	out := s.Clone()
	out.RuleID = ruleID
	return out
}

// WithRouting records a user choice of matter category and sub-role.
func (s CheckSelection) WithRouting(category MatterCategory, role SubRole) CheckSelection {
	out := s.Clone()
	out.Category, out.SubRole = category, role
	return out
}
