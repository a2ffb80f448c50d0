// Package validate checks an in-progress answer set against the rule set of
// the selected check type. Rules only apply to fields the configuration marks
// visible. Violations are collected exhaustively in field declaration order.
package validate

import (
	"onboard/internal/check/configure"
	"onboard/internal/check/models"
)

// input is everything a rule may read. It is never mutated.
type input struct {
	ctx     models.ClientContext
	sel     models.CheckSelection
	cfg     configure.Configuration
	answers models.Answers
}

// rule checks a single field and appends its violations.
type rule struct {
	field configure.Field
	check func(in input, v *violations)
}

type violations struct {
	list []models.Violation
}

func (v *violations) add(field configure.Field, message string) {
	v.list = append(v.list, models.Violation{Field: string(field), Message: message})
}

func (v *violations) addf(field string, message string) {
	v.list = append(v.list, models.Violation{Field: field, Message: message})
}

var commonRules = []rule{
	{configure.FieldCheckType, checkCheckType},
	{configure.FieldReference, checkReference},
}

var rulesByCheckType = map[models.CheckType][]rule{
	models.CheckIdentityScreening:      identityScreeningRules,
	models.CheckElectronicVerification: electronicVerificationRules,
	models.CheckBusinessVerification:   businessVerificationRules,
}

// Validate derives the configuration for ctx and sel and checks answers
// against it. It performs no I/O and returns identical results for identical
// inputs.
func Validate(ctx models.ClientContext, sel models.CheckSelection, answers models.Answers) models.ValidationResult {
	return WithConfiguration(configure.Derive(ctx, sel), ctx, sel, answers)
}

// WithConfiguration validates against an already derived configuration.
func WithConfiguration(cfg configure.Configuration, ctx models.ClientContext, sel models.CheckSelection, answers models.Answers) models.ValidationResult {
	in := input{ctx: ctx, sel: sel, cfg: cfg, answers: answers}
	var v violations
	apply(in, commonRules, &v)
	if len(v.list) > 0 && v.list[0].Field == string(configure.FieldCheckType) {
		return models.NewValidationResult(v.list)
	}
	apply(in, rulesByCheckType[cfg.CheckType], &v)
	return models.NewValidationResult(v.list)
}

func apply(in input, rules []rule, v *violations) {
	for _, r := range rules {
		if r.field != configure.FieldCheckType && !in.cfg.Fields.Has(r.field) {
			continue
		}
		r.check(in, v)
	}
}

func checkCheckType(in input, v *violations) {
	switch {
	case in.cfg.Blocked:
		v.add(configure.FieldCheckType, "no checks are available for this client")
	case in.cfg.CheckType == "":
		v.add(configure.FieldCheckType, "is required")
	case !in.cfg.IsAvailable(in.cfg.CheckType):
		v.add(configure.FieldCheckType, "is not available for this client")
	}
}

func checkReference(in input, v *violations) {
	if blank(in.answers.Reference) {
		v.add(configure.FieldReference, "is required")
	}
}
