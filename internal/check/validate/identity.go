package validate

import (
	"strings"
	"time"

	"onboard/internal/check/configure"
	"onboard/internal/check/models"
	"onboard/internal/check/normalize"
)

const (
	dobLayout  = "02012006"
	minDOBYear = 1900
	maxDOBYear = 2100
)

var identityScreeningRules = []rule{
	{configure.FieldCheckType, checkIdentityOptions},
	{configure.FieldFirstName, requireText(configure.FieldFirstName, func(a models.Answers) string { return a.FirstName })},
	{configure.FieldLastName, requireText(configure.FieldLastName, func(a models.Answers) string { return a.LastName })},
	{configure.FieldDateOfBirth, checkDateOfBirth},
	{configure.FieldAddress, checkAddress},
	{configure.FieldDocumentType, checkDocumentType},
	{configure.FieldFrontImage, checkFrontImage},
	{configure.FieldBackImage, checkBackImage},
}

func checkIdentityOptions(in input, v *violations) {
	if !in.cfg.Checked(models.OptionScreening) && !in.cfg.Checked(models.OptionIdentityDocument) {
		v.add(configure.FieldCheckType, "select screening, an identity document or both")
	}
}

// ParseDateOfBirth parses DDMMYYYY digits into a calendar date.
func ParseDateOfBirth(digits string) (time.Time, bool) {
	if len(digits) != len(dobLayout) || !allDigits(digits) {
		return time.Time{}, false
	}
	t, err := time.Parse(dobLayout, digits)
	if err != nil {
		return time.Time{}, false
	}
	if t.Year() < minDOBYear || t.Year() > maxDOBYear {
		return time.Time{}, false
	}
	return t, true
}

func checkDateOfBirth(in input, v *violations) {
	dob := strings.TrimSpace(in.answers.DateOfBirth)
	switch {
	case dob == "":
		v.add(configure.FieldDateOfBirth, "is required")
	case len(dob) != len(dobLayout) || !allDigits(dob):
		v.add(configure.FieldDateOfBirth, "must be 8 digits in DDMMYYYY order")
	default:
		if _, ok := ParseDateOfBirth(dob); !ok {
			v.add(configure.FieldDateOfBirth, "must be a real date between 1900 and 2100")
		}
	}
}

// checkAddress validates the canonical form the payload will carry. The
// country decides which rules apply, so a missing or unrecognised country is
// the only violation reported.
func checkAddress(in input, v *violations) {
	a := in.answers.Address
	if a == nil || a.IsZero() {
		v.add(configure.FieldAddress, "is required")
		return
	}
	prefix := string(configure.FieldAddress) + "."
	if blank(a.Country) {
		v.addf(prefix+"country", "country is required")
		return
	}
	canonical, confidence, _ := normalize.CanonicalizeAddress(*a)
	if confidence == normalize.ConfidenceDegraded {
		v.addf(prefix+"country", "country is not recognised")
		return
	}
	for _, p := range canonical.Problems() {
		v.addf(prefix+p.Field, p.Message)
	}
}

func checkDocumentType(in input, v *violations) {
	switch kind := in.answers.DocumentType; {
	case kind == "":
		v.add(configure.FieldDocumentType, "is required")
	case !kind.IsKnown():
		v.add(configure.FieldDocumentType, "is not a supported document")
	}
}

func checkFrontImage(in input, v *violations) {
	kind := in.answers.DocumentType
	side := models.SideFront
	if kind.IsKnown() && !kind.IsDoubleSided() {
		side = models.SideSingle
	}
	checkImage(in, v, configure.FieldFrontImage, in.answers.FrontImageID, side)
}

func checkBackImage(in input, v *violations) {
	kind := in.answers.DocumentType
	if !kind.IsKnown() {
		return
	}
	if !kind.IsDoubleSided() {
		if in.answers.BackImageID != "" {
			v.add(configure.FieldBackImage, "is not used for single-sided documents")
		}
		return
	}
	checkImage(in, v, configure.FieldBackImage, in.answers.BackImageID, models.SideBack)
}

func checkImage(in input, v *violations, field configure.Field, id string, side models.ImageSide) {
	if id == "" {
		v.add(field, "is required")
		return
	}
	img, ok := in.ctx.FindImage(id)
	if !ok {
		v.add(field, "was not found, please reselect the document")
		return
	}
	kind := in.answers.DocumentType
	if !kind.IsKnown() {
		return
	}
	if img.DocumentKind != kind {
		v.add(field, "belongs to a different document type")
		return
	}
	if img.Side != side {
		v.add(field, "is not the "+string(side)+" side of the document")
	}
}

func requireText(field configure.Field, get func(models.Answers) string) func(input, *violations) {
	return func(in input, v *violations) {
		if blank(get(in.answers)) {
			v.add(field, "is required")
		}
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
