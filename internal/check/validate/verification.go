package validate

import (
	"onboard/internal/check/configure"
	"onboard/internal/check/models"
	"onboard/internal/check/normalize"
	"onboard/pkg/email"
)

var electronicVerificationRules = []rule{
	{configure.FieldCategory, checkCategory},
	{configure.FieldSubRole, checkSubRole},
	{configure.FieldFirstName, requireText(configure.FieldFirstName, func(a models.Answers) string { return a.FirstName })},
	{configure.FieldLastName, requireText(configure.FieldLastName, func(a models.Answers) string { return a.LastName })},
	{configure.FieldMobile, checkMobile},
	{configure.FieldEmail, checkEmail},
}

func checkCategory(in input, v *violations) {
	if in.cfg.Routing.Category == "" {
		v.add(configure.FieldCategory, "is required")
	}
}

func checkSubRole(in input, v *violations) {
	r := in.cfg.Routing
	switch {
	case r.SubRole == "":
		v.add(configure.FieldSubRole, "is required")
	case !configure.ValidSubRole(r.Category, r.SubRole):
		v.add(configure.FieldSubRole, "is not valid for the selected category")
	}
}

// mobileJurisdiction is the country a mobile number is claimed for.
func mobileJurisdiction(in input) string {
	if in.answers.MobileCountry != "" {
		return in.answers.MobileCountry
	}
	return in.cfg.DefaultJurisdiction
}

func checkMobile(in input, v *violations) {
	if blank(in.answers.Mobile) {
		v.add(configure.FieldMobile, "is required")
		return
	}
	phone, err := normalize.ParsePhone(in.answers.Mobile, mobileJurisdiction(in))
	if err != nil {
		v.add(configure.FieldMobile, "is not a recognisable phone number")
		return
	}
	if !normalize.IsMobile(phone, in.answers.MobileCountry) {
		v.add(configure.FieldMobile, "must be a valid mobile number for its country")
	}
}

func checkEmail(in input, v *violations) {
	if blank(in.answers.Email) {
		return
	}
	if !email.Valid(in.answers.Email) {
		v.add(configure.FieldEmail, "is not a valid email address")
	}
}
