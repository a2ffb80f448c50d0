package models

// Phone is a parsed phone number split at the country calling code.
type Phone struct {
	CountryCallingCode string `json:"country_calling_code"`
	NationalNumber     string `json:"national_number"`
}

// E164 renders the number as +<code><national>.
func (p Phone) E164() string {
	return p.CountryCallingCode + p.NationalNumber
}

// IsZero reports whether no number is set.
func (p Phone) IsZero() bool {
	return p == Phone{}
}

// PayloadKind identifies the outbound payload shape.
type PayloadKind string

const (
	PayloadIdentityScreening      PayloadKind = "identity_screening"
	PayloadElectronicVerification PayloadKind = "electronic_verification"
	PayloadBusinessVerification   PayloadKind = "business_verification"
)

// TaskType is a task or report descriptor in an outbound payload.
type TaskType string

const (
	TaskIdentity         TaskType = "identity"
	TaskDocument         TaskType = "document"
	TaskAddress          TaskType = "address"
	TaskScreening        TaskType = "screening"
	TaskSourceOfFunds    TaskType = "source_of_funds"
	TaskBankStatements   TaskType = "bank_statements"
	TaskGiftDeclaration  TaskType = "gift_declaration"
	TaskProofOfOwnership TaskType = "proof_of_ownership"
	TaskCompanyReport    TaskType = "company_report"
	TaskOfficers         TaskType = "officers"
)

// Task is one descriptor; Document is set only for document tasks.
type Task struct {
	Type     TaskType      `json:"type"`
	Document *DocumentTask `json:"document,omitempty"`
}

// DocumentTask references document images by storage key.
type DocumentTask struct {
	DocumentType DocumentKind `json:"document_type"`
	FrontKey     string       `json:"front_key"`
	BackKey      string       `json:"back_key,omitempty"`
}

// PersonSubject describes the individual a payload is about.
// Address is rendered in the receiving provider's dialect.
type PersonSubject struct {
	FirstName   string         `json:"first_name"`
	MiddleName  string         `json:"middle_name,omitempty"`
	LastName    string         `json:"last_name"`
	DateOfBirth string         `json:"date_of_birth,omitempty"`
	Address     map[string]any `json:"address,omitempty"`
	Phone       *Phone         `json:"phone,omitempty"`
	Email       string         `json:"email,omitempty"`
	Category    string         `json:"category,omitempty"`
	SubRole     string         `json:"sub_role,omitempty"`
}

// Officer is a company officer or controller taken from the registry snapshot.
type Officer struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// CompanySubject describes the linked registry entity.
type CompanySubject struct {
	RecordID         string         `json:"record_id"`
	Name             string         `json:"name"`
	Number           string         `json:"number,omitempty"`
	Jurisdiction     string         `json:"jurisdiction"`
	RegisteredOffice map[string]any `json:"registered_office,omitempty"`
	Officers         []Officer      `json:"officers,omitempty"`
}

// Payload is one outbound request for an external provider.
type Payload struct {
	Kind       PayloadKind     `json:"kind"`
	Reference  string          `json:"reference"`
	Monitoring bool            `json:"monitoring"`
	Tasks      []Task          `json:"tasks"`
	Person     *PersonSubject  `json:"person,omitempty"`
	Company    *CompanySubject `json:"company,omitempty"`
	RuleID     string          `json:"rule_id,omitempty"`
}

// TaskTypes lists the payload's task types in order.
func (p Payload) TaskTypes() []TaskType {
	out := make([]TaskType, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		out = append(out, t.Type)
	}
	return out
}
