// Package request assembles outbound provider payloads from validated
// answers. Addresses, phones and jurisdictions are always rendered through
// the normalizer at this point and never earlier.
package request

import (
	"net/url"
	"strings"

	"onboard/internal/check/configure"
	"onboard/internal/check/models"
	"onboard/internal/check/normalize"
	"onboard/internal/check/validate"
	"onboard/pkg/attrs"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/email"
)

// ReferenceMarker prefixes every payload reference so downstream systems can
// tell API-originated cases apart.
const ReferenceMarker = "API-"

const dobOutputLayout = "2006-01-02"

// Build validates the answers and assembles one payload for the selected
// check. Invalid answers are an invariant violation wrapping
// ErrInvalidAnswers. BuildError failures are wrapped as validation errors.
func Build(ctx models.ClientContext, sel models.CheckSelection, answers models.Answers) ([]models.Payload, error) {
	cfg := configure.Derive(ctx, sel)
	if result := validate.WithConfiguration(cfg, ctx, sel, answers); !result.Valid() {
		return nil, dErrors.Wrap(ErrInvalidAnswers, dErrors.CodeInvariantViolation, "build requires valid answers")
	}

	b := builder{ctx: ctx, sel: sel, cfg: cfg, answers: answers}
	var (
		p   models.Payload
		err error
	)
	switch cfg.CheckType {
	case models.CheckIdentityScreening:
		p, err = b.identityScreening()
	case models.CheckElectronicVerification:
		p, err = b.electronicVerification()
	case models.CheckBusinessVerification:
		p, err = b.businessVerification()
	default:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "no check type selected")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "payload could not be built")
	}

	sortTasks(p.Tasks)
	if err := checkSchema(p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "payload does not match provider schema")
	}
	return []models.Payload{p}, nil
}

type builder struct {
	ctx     models.ClientContext
	sel     models.CheckSelection
	cfg     configure.Configuration
	answers models.Answers
}

// reference is the internal matter reference. The answered reference only
// stands in when the context carries no matter.
func (b builder) reference() string {
	if ref := strings.TrimSpace(b.ctx.Matter.Reference); ref != "" {
		return ref
	}
	return strings.TrimSpace(b.answers.Reference)
}

func (b builder) base(kind models.PayloadKind) models.Payload {
	return models.Payload{
		Kind:       kind,
		Reference:  ReferenceMarker + b.reference(),
		Monitoring: b.cfg.Checked(models.OptionMonitoring),
		Tasks:      []models.Task{},
	}
}

func (b builder) addOptionTasks(p *models.Payload, keys ...models.OptionKey) {
	for _, k := range keys {
		if b.cfg.Checked(k) {
			p.Tasks = append(p.Tasks, models.Task{Type: optionTasks[k]})
		}
	}
}

func (b builder) identityScreening() (models.Payload, error) {
	p := b.base(models.PayloadIdentityScreening)
	p.Tasks = append(p.Tasks, models.Task{Type: models.TaskIdentity})

	if b.cfg.Checked(models.OptionScreening) {
		person := b.personName()
		dob, _ := validate.ParseDateOfBirth(b.answers.DateOfBirth)
		person.DateOfBirth = dob.Format(dobOutputLayout)
		if b.cfg.Checked(models.OptionScreeningAddress) && b.answers.Address != nil {
			addr, confidence, err := normalize.CanonicalizeAddress(*b.answers.Address)
			if err != nil || confidence == normalize.ConfidenceDegraded {
				return models.Payload{}, dErrors.New(dErrors.CodeInvariantViolation, "validated address did not normalize")
			}
			person.Address = normalize.AddressForProvider(addr, normalize.DialectVerification)
			p.Tasks = append(p.Tasks, models.Task{Type: models.TaskAddress})
		}
		p.Person = &person
		p.Tasks = append(p.Tasks, models.Task{Type: models.TaskScreening})
	}

	if b.cfg.Checked(models.OptionIdentityDocument) {
		doc, err := b.documentTask()
		if err != nil {
			return models.Payload{}, err
		}
		p.Tasks = append(p.Tasks, models.Task{Type: models.TaskDocument, Document: doc})
	}
	return p, nil
}

func (b builder) electronicVerification() (models.Payload, error) {
	p := b.base(models.PayloadElectronicVerification)
	p.Tasks = append(p.Tasks, models.Task{Type: models.TaskIdentity})

	person := b.personName()
	jurisdiction := b.answers.MobileCountry
	if jurisdiction == "" {
		jurisdiction = b.cfg.DefaultJurisdiction
	}
	phone, err := normalize.ParsePhone(b.answers.Mobile, jurisdiction)
	if err != nil {
		return models.Payload{}, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "validated mobile did not parse")
	}
	person.Phone = &phone
	if e := strings.TrimSpace(b.answers.Email); e != "" {
		person.Email = email.Normalize(e)
	}
	person.Category = string(b.cfg.Routing.Category)
	person.SubRole = string(b.cfg.Routing.SubRole)
	p.Person = &person

	b.addOptionTasks(&p,
		models.OptionProofOfAddress,
		models.OptionSourceOfFunds,
		models.OptionBankStatements,
		models.OptionGiftDeclaration,
		models.OptionProofOfOwnership,
		models.OptionScreening,
	)
	return p, nil
}

func (b builder) businessVerification() (models.Payload, error) {
	rec := b.answers.LinkedRecord
	if rec == nil || rec.ID == "" || !rec.Confirmed {
		return models.Payload{}, &BuildError{
			Kind:   ErrMissingLinkedRecord,
			Option: models.OptionCompanyReport,
			Detail: "select and confirm the registry record before submitting",
		}
	}

	p := b.base(models.PayloadBusinessVerification)
	jurisdiction := rec.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = b.answers.Jurisdiction
	}
	code, _ := normalize.CountryCodeToProviderCode(jurisdiction)
	company := &models.CompanySubject{
		RecordID:     rec.ID,
		Name:         rec.Name,
		Number:       rec.Number,
		Jurisdiction: code,
	}
	company.RegisteredOffice = b.registeredOffice(jurisdiction)
	if b.cfg.Checked(models.OptionOfficers) {
		company.Officers = officersFrom(b.ctx.RegisteredBusinessData)
	}
	p.Company = company

	if b.cfg.Checked(models.OptionRuleBased) {
		p.RuleID = strings.TrimSpace(b.sel.RuleID)
	}
	b.addOptionTasks(&p, models.OptionCompanyReport, models.OptionOfficers, models.OptionScreening)
	return p, nil
}

func (b builder) personName() models.PersonSubject {
	return models.PersonSubject{
		FirstName:  strings.TrimSpace(b.answers.FirstName),
		MiddleName: strings.TrimSpace(b.answers.MiddleName),
		LastName:   strings.TrimSpace(b.answers.LastName),
	}
}

func (b builder) documentTask() (*models.DocumentTask, error) {
	front, err := b.storageKey(b.answers.FrontImageID)
	if err != nil {
		return nil, err
	}
	doc := &models.DocumentTask{DocumentType: b.answers.DocumentType, FrontKey: front}
	if b.answers.DocumentType.IsDoubleSided() {
		if doc.BackKey, err = b.storageKey(b.answers.BackImageID); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// storageKey maps an identity image to its blob storage key, the path of
// its URL without the leading slash.
func (b builder) storageKey(imageID string) (string, error) {
	unresolvable := func(detail string) error {
		return &BuildError{Kind: ErrUnresolvableDocumentReference, Option: models.OptionIdentityDocument, Detail: detail}
	}
	img, ok := b.ctx.FindImage(imageID)
	if !ok {
		return "", unresolvable("image " + imageID + " is not in the inventory, please reselect the document")
	}
	u, err := url.Parse(strings.TrimSpace(img.URL))
	if err != nil {
		return "", unresolvable("image " + imageID + " has a malformed location, please reselect the document")
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", unresolvable("image " + imageID + " has no storage location, please reselect the document")
	}
	return key, nil
}

// registeredOffice renders the snapshot's registered office in the registry
// dialect. Malformed offices are sent best-effort.
func (b builder) registeredOffice(jurisdiction string) map[string]any {
	office := attrs.Map(b.ctx.RegisteredBusinessData, "registered_office")
	if len(office) == 0 {
		return nil
	}
	raw := normalize.RawAddress{
		Country:  attrs.FirstString(office, "country_code", "country"),
		FreeText: attrs.String(office, "full_address"),
		Line1:    strings.TrimSpace(attrs.String(office, "premises") + " " + attrs.String(office, "address_line_1")),
		Line2:    attrs.String(office, "address_line_2"),
		Town:     attrs.FirstString(office, "locality", "town"),
		State:    attrs.String(office, "region"),
		Postcode: attrs.FirstString(office, "postal_code", "postcode"),
	}
	addr, _, _ := normalize.ToCanonicalAddress(raw, jurisdiction)
	return normalize.AddressForProvider(addr, normalize.DialectRegistry)
}

func officersFrom(data map[string]any) []models.Officer {
	var out []models.Officer
	for _, key := range []string{"officers", "controllers"} {
		for _, rec := range attrs.Records(data, key) {
			name := attrs.FirstString(rec, "name", "full_name")
			if name == "" {
				continue
			}
			role := attrs.FirstString(rec, "role", "officer_role")
			if role == "" && key == "controllers" {
				role = "controller"
			}
			out = append(out, models.Officer{Name: name, Role: role})
		}
	}
	return out
}
