package configure

import "slices"

// Field names an answer field. Violations reference these names.
type Field string

const (
	FieldReference        Field = "reference"
	FieldCheckType        Field = "check_type"
	FieldFirstName        Field = "first_name"
	FieldLastName         Field = "last_name"
	FieldDateOfBirth      Field = "date_of_birth"
	FieldAddress          Field = "address"
	FieldDocumentType     Field = "document_type"
	FieldFrontImage       Field = "front_image"
	FieldBackImage        Field = "back_image"
	FieldCategory         Field = "category"
	FieldSubRole          Field = "sub_role"
	FieldMobile           Field = "mobile"
	FieldEmail            Field = "email"
	FieldJurisdiction     Field = "jurisdiction"
	FieldRegisteredName   Field = "registered_name"
	FieldRegisteredNumber Field = "registered_number"
	FieldLinkedRecord     Field = "linked_record"
	FieldRuleID           Field = "rule_id"
)

// FieldSet is the ordered set of fields shown for a selection.
type FieldSet struct {
	fields []Field
}

func (s *FieldSet) add(fields ...Field) {
	for _, f := range fields {
		if !slices.Contains(s.fields, f) {
			s.fields = append(s.fields, f)
		}
	}
}

// Has reports whether f is visible.
func (s FieldSet) Has(f Field) bool {
	return slices.Contains(s.fields, f)
}

// List returns the visible fields in display order.
func (s FieldSet) List() []Field {
	return slices.Clone(s.fields)
}
