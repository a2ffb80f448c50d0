package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"onboard/internal/check/models"
	"onboard/pkg/testutil"
)

func individual() models.ClientContext {
	return models.ClientContext{
		EntityKind: models.EntityIndividual,
		Matter:     models.Matter{Reference: "MAT-100", WorkType: "Purchase", Relation: "Buyer"},
	}
}

func bristolAnswers() models.Answers {
	return models.Answers{
		Reference:   "MAT-100",
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "15031990",
		Address: &models.Address{
			Country:        models.CountryGBR,
			Town:           "Bristol",
			Postcode:       "BS1 1AA",
			BuildingNumber: "12",
		},
	}
}

func screeningWithAddress() models.CheckSelection {
	return models.CheckSelection{}.
		WithCheckType(models.CheckIdentityScreening).
		WithOption(models.OptionScreeningAddress, true)
}

func evSelection() models.CheckSelection {
	return models.CheckSelection{}.WithCheckType(models.CheckElectronicVerification)
}

func TestValidateScenarios(t *testing.T) {
	testutil.Given(t, "a UK individual choosing identity and screening", func(t *testing.T) {
		testutil.When(t, "name, date of birth and a Bristol address are supplied", func(t *testing.T) {
			result := Validate(individual(), screeningWithAddress(), bristolAnswers())

			testutil.Then(t, "the answers are valid", func(t *testing.T) {
				assert.True(t, result.Valid(), result.Violations())
			})
		})

		testutil.When(t, "the name and date of birth variant is chosen without an address", func(t *testing.T) {
			answers := bristolAnswers()
			answers.Address = nil
			result := Validate(individual(), models.CheckSelection{}.WithCheckType(models.CheckIdentityScreening), answers)

			testutil.Then(t, "the address is not required", func(t *testing.T) {
				assert.True(t, result.Valid(), result.Violations())
			})
		})
	})

	testutil.Given(t, "an individual choosing electronic verification", func(t *testing.T) {
		testutil.When(t, "the full name is present but the mobile is missing", func(t *testing.T) {
			answers := models.Answers{Reference: "MAT-100", FirstName: "Jane", LastName: "Doe"}
			result := Validate(individual(), evSelection(), answers)

			testutil.Then(t, "exactly one violation references the mobile", func(t *testing.T) {
				require.Len(t, result.Violations(), 1)
				assert.Equal(t, "mobile", result.Violations()[0].Field)
			})
		})
	})

	testutil.Given(t, "a charity", func(t *testing.T) {
		ctx := models.ClientContext{EntityKind: models.EntityCharity}

		testutil.When(t, "any check is submitted", func(t *testing.T) {
			result := Validate(ctx, models.CheckSelection{}.WithCheckType(models.CheckBusinessVerification), models.Answers{})

			testutil.Then(t, "only the blocked check type is reported", func(t *testing.T) {
				assert.Equal(t, []string{"check_type"}, result.Fields())
			})
		})
	})
}

func TestCommonRules(t *testing.T) {
	t.Run("reference is required", func(t *testing.T) {
		answers := bristolAnswers()
		answers.Reference = "  "
		result := Validate(individual(), screeningWithAddress(), answers)
		assert.Equal(t, []string{"reference"}, result.Fields())
	})

	t.Run("check type must be available for the entity", func(t *testing.T) {
		ctx := models.ClientContext{EntityKind: models.EntityBusiness}
		result := Validate(ctx, models.CheckSelection{}.WithCheckType(models.CheckIdentityScreening), bristolAnswers())
		require.Equal(t, []string{"check_type"}, result.Fields())
		assert.Equal(t, "is not available for this client", result.Violations()[0].Message)
	})

	t.Run("check type is required when nothing can be auto-selected", func(t *testing.T) {
		result := Validate(individual(), models.CheckSelection{}, bristolAnswers())
		assert.Equal(t, []string{"check_type"}, result.Fields())
	})
}

func TestDateOfBirth(t *testing.T) {
	tests := []struct {
		name    string
		dob     string
		message string
	}{
		{"missing", "", "is required"},
		{"too short", "1503199", "must be 8 digits in DDMMYYYY order"},
		{"not digits", "15-03-90", "must be 8 digits in DDMMYYYY order"},
		{"not a calendar date", "31021990", "must be a real date between 1900 and 2100"},
		{"before 1900", "01011899", "must be a real date between 1900 and 2100"},
		{"after 2100", "01012101", "must be a real date between 1900 and 2100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := bristolAnswers()
			answers.DateOfBirth = tt.dob
			result := Validate(individual(), screeningWithAddress(), answers)
			require.Len(t, result.Violations(), 1)
			assert.Equal(t, models.Violation{Field: "date_of_birth", Message: tt.message}, result.Violations()[0])
		})
	}

	t.Run("parses boundaries", func(t *testing.T) {
		got, ok := ParseDateOfBirth("29022000")
		require.True(t, ok)
		assert.Equal(t, time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC), got)
		_, ok = ParseDateOfBirth("31122100")
		assert.True(t, ok)
	})
}

func TestAddressViolationsArePrefixed(t *testing.T) {
	tests := []struct {
		name    string
		address *models.Address
		fields  []string
	}{
		{"missing", nil, []string{"address"}},
		{"UK line is decomposed before checking", &models.Address{Country: models.CountryGBR, Line1: "12 High Street"}, []string{"address.town", "address.postcode"}},
		{"UK without building identifier", &models.Address{Country: models.CountryGBR, Street: "High Street", Town: "Bristol", Postcode: "BS1 1AA"}, []string{"address.building"}},
		{"US needs a state", &models.Address{Country: "US", Line1: "1600 Pennsylvania Ave NW", Town: "Washington"}, []string{"address.state"}},
		{"country is required", &models.Address{Line1: "1 Rue X", Town: "Paris"}, []string{"address.country"}},
		{"unknown country is not defaulted", &models.Address{Country: "ZZZ", Line1: "1 Rue X", Town: "Paris"}, []string{"address.country"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := bristolAnswers()
			answers.Address = tt.address
			assert.Equal(t, tt.fields, Validate(individual(), screeningWithAddress(), answers).Fields())
		})
	}
}

func TestUnknownAddressCountryMessage(t *testing.T) {
	answers := bristolAnswers()
	answers.Address = &models.Address{Country: "ZZZ", Line1: "1 Rue X", Town: "Paris"}
	result := Validate(individual(), screeningWithAddress(), answers)
	require.Len(t, result.Violations(), 1)
	assert.Equal(t, "country is not recognised", result.Violations()[0].Message)
}

type DocumentRulesSuite struct {
	suite.Suite
	ctx models.ClientContext
	sel models.CheckSelection
}

func TestDocumentRulesSuite(t *testing.T) {
	suite.Run(t, new(DocumentRulesSuite))
}

func (s *DocumentRulesSuite) SetupTest() {
	s.ctx = individual()
	s.ctx.IdentityImages = []models.IdentityImage{
		{ID: "p1", DocumentKind: models.DocumentPassport, Side: models.SideSingle},
		{ID: "f1", DocumentKind: models.DocumentDrivingLicence, Side: models.SideFront},
		{ID: "b1", DocumentKind: models.DocumentDrivingLicence, Side: models.SideBack},
	}
	s.sel = models.CheckSelection{}.
		WithCheckType(models.CheckIdentityScreening).
		WithOption(models.OptionScreening, false).
		WithOption(models.OptionIdentityDocument, true)
}

func (s *DocumentRulesSuite) validate(answers models.Answers) models.ValidationResult {
	answers.Reference = "MAT-100"
	return Validate(s.ctx, s.sel, answers)
}

func (s *DocumentRulesSuite) TestSingleSidedDocument() {
	result := s.validate(models.Answers{DocumentType: models.DocumentPassport, FrontImageID: "p1"})
	s.True(result.Valid(), result.Violations())
}

func (s *DocumentRulesSuite) TestDoubleSidedDocumentNeedsBack() {
	result := s.validate(models.Answers{DocumentType: models.DocumentDrivingLicence, FrontImageID: "f1"})
	s.Equal([]models.Violation{{Field: "back_image", Message: "is required"}}, result.Violations())

	result = s.validate(models.Answers{DocumentType: models.DocumentDrivingLicence, FrontImageID: "f1", BackImageID: "b1"})
	s.True(result.Valid(), result.Violations())
}

func (s *DocumentRulesSuite) TestBackImageRejectedForSingleSided() {
	result := s.validate(models.Answers{DocumentType: models.DocumentPassport, FrontImageID: "p1", BackImageID: "b1"})
	s.Equal([]string{"back_image"}, result.Fields())
}

func (s *DocumentRulesSuite) TestImagesMustMatchInventory() {
	result := s.validate(models.Answers{DocumentType: models.DocumentPassport, FrontImageID: "f1"})
	s.Equal([]models.Violation{{Field: "front_image", Message: "belongs to a different document type"}}, result.Violations())

	result = s.validate(models.Answers{DocumentType: models.DocumentDrivingLicence, FrontImageID: "b1", BackImageID: "f1"})
	s.Equal([]string{"front_image", "back_image"}, result.Fields())

	result = s.validate(models.Answers{DocumentType: models.DocumentPassport, FrontImageID: "gone"})
	s.Equal([]models.Violation{{Field: "front_image", Message: "was not found, please reselect the document"}}, result.Violations())
}

func (s *DocumentRulesSuite) TestDocumentTypeRequired() {
	result := s.validate(models.Answers{})
	s.Equal([]string{"document_type", "front_image"}, result.Fields())

	result = s.validate(models.Answers{DocumentType: "library_card", FrontImageID: "p1"})
	s.Equal([]string{"document_type"}, result.Fields())
}

func (s *DocumentRulesSuite) TestNeitherOptionSelected() {
	sel := s.sel.WithOption(models.OptionIdentityDocument, false)
	result := Validate(s.ctx, sel, models.Answers{Reference: "MAT-100"})
	s.Equal([]string{"check_type"}, result.Fields())
}

func TestElectronicVerificationRules(t *testing.T) {
	base := models.Answers{Reference: "MAT-100", FirstName: "Jane", LastName: "Doe", Mobile: "+447400123456", MobileCountry: "GB"}

	tests := []struct {
		name   string
		modify func(a *models.Answers)
		fields []string
	}{
		{"valid mobile", func(a *models.Answers) {}, []string{}},
		{"trunk prefix uses default jurisdiction", func(a *models.Answers) { a.Mobile, a.MobileCountry = "07400 123456", "" }, []string{}},
		{"fixed line rejected", func(a *models.Answers) { a.Mobile = "+44 121 234 5678" }, []string{"mobile"}},
		{"unparseable", func(a *models.Answers) { a.Mobile = "call me" }, []string{"mobile"}},
		{"wrong claimed country", func(a *models.Answers) { a.MobileCountry = "FR" }, []string{"mobile"}},
		{"valid email", func(a *models.Answers) { a.Email = "jane@example.com" }, []string{}},
		{"invalid email", func(a *models.Answers) { a.Email = "jane@" }, []string{"email"}},
		{"missing names", func(a *models.Answers) { a.FirstName, a.LastName = "", "" }, []string{"first_name", "last_name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := base
			tt.modify(&answers)
			assert.Equal(t, tt.fields, Validate(individual(), evSelection(), answers).Fields())
		})
	}
}

func TestElectronicVerificationRouting(t *testing.T) {
	answers := models.Answers{Reference: "MAT-100", FirstName: "Jane", LastName: "Doe", Mobile: "+447400123456"}

	t.Run("category required when nothing routes", func(t *testing.T) {
		ctx := models.ClientContext{EntityKind: models.EntityIndividual}
		assert.Equal(t, []string{"category"}, Validate(ctx, evSelection(), answers).Fields())
	})

	t.Run("sub-role required for categories that have them", func(t *testing.T) {
		ctx := models.ClientContext{EntityKind: models.EntityIndividual}
		sel := evSelection().WithRouting(models.CategoryConveyancing, "")
		assert.Equal(t, []string{"sub_role"}, Validate(ctx, sel, answers).Fields())
	})

	t.Run("sub-role must belong to the category", func(t *testing.T) {
		sel := evSelection().WithRouting(models.CategoryConveyancing, models.SubRoleTenant)
		result := Validate(individual(), sel, answers)
		require.Equal(t, []string{"sub_role"}, result.Fields())
		assert.Equal(t, "is not valid for the selected category", result.Violations()[0].Message)
	})

	t.Run("categories without sub-roles skip the rule", func(t *testing.T) {
		sel := evSelection().WithRouting(models.CategoryGeneral, "")
		assert.True(t, Validate(individual(), sel, answers).Valid())
	})
}

func TestBusinessVerificationRules(t *testing.T) {
	ctx := models.ClientContext{EntityKind: models.EntityBusiness}
	sel := models.CheckSelection{}.WithCheckType(models.CheckBusinessVerification)
	record := &models.LinkedRecord{ID: "reg-1", Name: "Acme Widgets Ltd", Number: "01234567", Jurisdiction: "GB", Confirmed: true}

	tests := []struct {
		name    string
		sel     models.CheckSelection
		answers models.Answers
		fields  []string
	}{
		{"search by name", sel, models.Answers{Jurisdiction: "GB", RegisteredName: "Acme"}, []string{}},
		{"search by number", sel, models.Answers{Jurisdiction: "GB", RegisteredNumber: "01234567"}, []string{}},
		{"no search terms", sel, models.Answers{}, []string{"jurisdiction", "registered_name"}},
		{"linked record is the source of truth", sel, models.Answers{LinkedRecord: record}, []string{}},
		{"same jurisdiction in another scheme", sel, models.Answers{Jurisdiction: "GBR", RegisteredName: "acme widgets ltd", LinkedRecord: record}, []string{}},
		{"linked jurisdiction is immutable", sel, models.Answers{Jurisdiction: "IE", LinkedRecord: record}, []string{"jurisdiction"}},
		{"linked search fields are immutable", sel, models.Answers{RegisteredName: "Other Co", RegisteredNumber: "999", LinkedRecord: record}, []string{"registered_name", "registered_number"}},
		{"linked record without identifier", sel, models.Answers{Jurisdiction: "GB", RegisteredName: "Acme", LinkedRecord: &models.LinkedRecord{Name: "Acme"}}, []string{"linked_record"}},
		{"rule id required for rule-based", sel.WithOption(models.OptionRuleBased, true), models.Answers{LinkedRecord: record}, []string{"rule_id"}},
		{"rule id supplied", sel.WithOption(models.OptionRuleBased, true).WithRuleID("kyb-standard"), models.Answers{LinkedRecord: record}, []string{}},
		{"rule id without rule-based", sel.WithRuleID("kyb-standard"), models.Answers{LinkedRecord: record}, []string{"rule_id"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.answers.Reference = "MAT-200"
			assert.Equal(t, tt.fields, Validate(ctx, tt.sel, tt.answers).Fields())
		})
	}
}

func TestLockedSearchRequiresConfirmedRecord(t *testing.T) {
	ctx := models.ClientContext{
		EntityKind:             models.EntityBusiness,
		RegisteredBusinessData: map[string]any{"name": "Acme Widgets Ltd", "jurisdiction": "GB"},
	}
	sel := models.CheckSelection{}.WithCheckType(models.CheckBusinessVerification)
	record := models.LinkedRecord{ID: "reg-1", Name: "Acme Widgets Ltd", Jurisdiction: "GB", Confirmed: true}
	unconfirmed := record
	unconfirmed.Confirmed = false

	tests := []struct {
		name    string
		answers models.Answers
		fields  []string
	}{
		{"no record", models.Answers{Jurisdiction: "GB"}, []string{"linked_record"}},
		{"unconfirmed record", models.Answers{LinkedRecord: &unconfirmed}, []string{"linked_record"}},
		{"confirmed record", models.Answers{LinkedRecord: &record}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.answers.Reference = "MAT-200"
			assert.Equal(t, tt.fields, Validate(ctx, sel, tt.answers).Fields())
		})
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	answers := models.Answers{FirstName: "Jane", Mobile: "0121 234 5678", Email: "nope"}
	first := Validate(individual(), evSelection(), answers)
	second := Validate(individual(), evSelection(), answers)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Violations(), second.Violations())
}

func TestValidateIsMonotonic(t *testing.T) {
	empty := models.Answers{}
	additions := []struct {
		field string
		add   func(a *models.Answers)
	}{
		{"reference", func(a *models.Answers) { a.Reference = "MAT-100" }},
		{"first_name", func(a *models.Answers) { a.FirstName = "Jane" }},
		{"last_name", func(a *models.Answers) { a.LastName = "Doe" }},
		{"mobile", func(a *models.Answers) { a.Mobile = "+447400123456" }},
	}

	before := Validate(individual(), evSelection(), empty)
	for _, step := range additions {
		t.Run(step.field, func(t *testing.T) {
			answers := empty
			step.add(&answers)
			after := Validate(individual(), evSelection(), answers)
			assert.NotContains(t, after.Fields(), step.field)
			for _, v := range before.Violations() {
				if v.Field != step.field {
					assert.Contains(t, after.Violations(), v)
				}
			}
			assert.Len(t, after.Violations(), len(before.Violations())-1)
		})
	}
}
