package validate

import (
	"strings"

	"onboard/internal/check/configure"
	"onboard/internal/check/models"
	"onboard/internal/check/normalize"
)

var businessVerificationRules = []rule{
	{configure.FieldJurisdiction, checkJurisdiction},
	{configure.FieldRegisteredName, checkSearchTerms},
	{configure.FieldRegisteredNumber, checkRegisteredNumber},
	{configure.FieldLinkedRecord, checkLinkedRecord},
	{configure.FieldRuleID, checkRuleID},
}

// linked returns the registry record that replaces free-text search, if any.
func linked(in input) *models.LinkedRecord {
	if r := in.answers.LinkedRecord; r != nil && r.ID != "" {
		return r
	}
	return nil
}

func sameJurisdiction(a, b string) bool {
	x, _ := normalize.CountryCodeToThreeLetter(a)
	y, _ := normalize.CountryCodeToThreeLetter(b)
	return x == y
}

func checkJurisdiction(in input, v *violations) {
	j := strings.TrimSpace(in.answers.Jurisdiction)
	rec := linked(in)
	switch {
	case j == "" && rec == nil:
		v.add(configure.FieldJurisdiction, "is required")
	case j != "" && rec != nil && rec.Jurisdiction != "" && !sameJurisdiction(j, rec.Jurisdiction):
		v.add(configure.FieldJurisdiction, "cannot be changed once a registry record is linked")
	}
}

func checkSearchTerms(in input, v *violations) {
	name := strings.TrimSpace(in.answers.RegisteredName)
	rec := linked(in)
	if rec == nil {
		if name == "" && blank(in.answers.RegisteredNumber) {
			v.add(configure.FieldRegisteredName, "a registered name or number is required")
		}
		return
	}
	if name != "" && !strings.EqualFold(name, strings.TrimSpace(rec.Name)) {
		v.add(configure.FieldRegisteredName, "cannot be changed once a registry record is linked")
	}
}

func checkRegisteredNumber(in input, v *violations) {
	number := strings.TrimSpace(in.answers.RegisteredNumber)
	rec := linked(in)
	if rec == nil || number == "" {
		return
	}
	if !strings.EqualFold(number, strings.TrimSpace(rec.Number)) {
		v.add(configure.FieldRegisteredNumber, "cannot be changed once a registry record is linked")
	}
}

// checkLinkedRecord requires a confirmed record once search is locked, since
// the search fields are no longer offered.
func checkLinkedRecord(in input, v *violations) {
	r := in.answers.LinkedRecord
	switch {
	case r != nil && r.ID == "":
		v.add(configure.FieldLinkedRecord, "has no registry identifier")
	case in.cfg.SearchLocked && (r == nil || !r.Confirmed):
		v.add(configure.FieldLinkedRecord, "confirm the registry record for this client")
	}
}

func checkRuleID(in input, v *violations) {
	ruleBased := in.cfg.Checked(models.OptionRuleBased)
	switch {
	case ruleBased && blank(in.sel.RuleID):
		v.add(configure.FieldRuleID, "is required for rule-based verification")
	case !ruleBased && !blank(in.sel.RuleID):
		v.add(configure.FieldRuleID, "is only used for rule-based verification")
	}
}
