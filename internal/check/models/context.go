// Package models holds the data shared by the check configuration, validation
// and request-building packages. Everything here is plain data; the engine
// packages never mutate a ClientContext they are given.
package models

import (
	"slices"
	"time"

	pstrings "onboard/pkg/platform/strings"
)

// EntityKind classifies the client record.
type EntityKind string

const (
	EntityIndividual EntityKind = "individual"
	EntityBusiness   EntityKind = "business"
	EntityCharity    EntityKind = "charity"
)

// IsKnown reports whether k is one of the supported entity kinds.
func (k EntityKind) IsKnown() bool {
	switch k {
	case EntityIndividual, EntityBusiness, EntityCharity:
		return true
	}
	return false
}

// Upstream routing tags.
const (
	TagStandardID    = "standard-id"
	TagPurchaseID    = "purchase-id"
	TagEnhancedID    = "enhanced-id"
	TagBusinessID    = "business-id"
	TagSourceOfFunds = "source-of-funds-requested"
)

// Tags is the normalized set of upstream routing tags.
type Tags struct {
	values []string
}

// NewTags trims, lowercases and dedupes raw tag values.
func NewTags(raw ...string) Tags {
	return Tags{values: pstrings.DedupeAndTrimLower(raw)}
}

// Has reports whether tag is present.
func (t Tags) Has(tag string) bool {
	return slices.Contains(t.values, tag)
}

// Values returns a copy of the tags in first-seen order.
func (t Tags) Values() []string {
	return slices.Clone(t.values)
}

// Matter describes the legal matter the client record belongs to.
type Matter struct {
	Reference   string
	WorkType    string
	Relation    string
	Description string
}

// DocumentKind is an identity document type.
type DocumentKind string

const (
	DocumentPassport        DocumentKind = "passport"
	DocumentDrivingLicence  DocumentKind = "driving_licence"
	DocumentNationalIDCard  DocumentKind = "national_identity_card"
	DocumentResidencePermit DocumentKind = "residence_permit"
)

// IsKnown reports whether k is a recognized photo ID kind.
func (k DocumentKind) IsKnown() bool {
	switch k {
	case DocumentPassport, DocumentDrivingLicence, DocumentNationalIDCard, DocumentResidencePermit:
		return true
	}
	return false
}

// IsDoubleSided reports whether the document needs a back image.
func (k DocumentKind) IsDoubleSided() bool {
	switch k {
	case DocumentDrivingLicence, DocumentNationalIDCard, DocumentResidencePermit:
		return true
	}
	return false
}

// ImageSide identifies which face of a document an image shows.
type ImageSide string

const (
	SideFront  ImageSide = "front"
	SideBack   ImageSide = "back"
	SideSingle ImageSide = "single"
)

// IdentityImage is an uploaded identity document image, referenced by URL.
type IdentityImage struct {
	ID           string
	DocumentKind DocumentKind
	Side         ImageSide
	UploadedAt   time.Time
	Uploader     string
	URL          string
}

// SupportDocumentKind is the type of a supporting document.
type SupportDocumentKind string

const (
	SupportUtilityBill       SupportDocumentKind = "utility_bill"
	SupportBankStatement     SupportDocumentKind = "bank_statement"
	SupportCouncilTaxBill    SupportDocumentKind = "council_tax_bill"
	SupportMortgageStatement SupportDocumentKind = "mortgage_statement"
	SupportTenancyAgreement  SupportDocumentKind = "tenancy_agreement"
	SupportGovernmentLetter  SupportDocumentKind = "government_letter"
	SupportOther             SupportDocumentKind = "other"
)

// IsAddressEvidence reports whether the document kind proves an address.
func (k SupportDocumentKind) IsAddressEvidence() bool {
	switch k {
	case SupportUtilityBill, SupportBankStatement, SupportCouncilTaxBill,
		SupportMortgageStatement, SupportTenancyAgreement, SupportGovernmentLetter:
		return true
	}
	return false
}

// SupportDocument is an uploaded supporting document.
type SupportDocument struct {
	Kind       SupportDocumentKind
	URL        string
	UploadedAt time.Time
}

// Icons are the confirmation flags shown against the client record.
type Icons struct {
	AddressIDConfirmed bool
	PhotoIDConfirmed   bool
	LikenessConfirmed  bool
}

// ClientContext is the read-only snapshot of everything known about the client and matter.
type ClientContext struct {
	EntityKind             EntityKind
	Tags                   Tags
	Matter                 Matter
	IdentityImages         []IdentityImage
	SupportDocuments       []SupportDocument
	Icons                  Icons
	KnownAddress           *Address
	KnownPreviousAddress   *Address
	RegisteredBusinessData map[string]any
}

// FindImage returns the identity image with the given ID.
func (c ClientContext) FindImage(id string) (IdentityImage, bool) {
	for _, img := range c.IdentityImages {
		if img.ID == id {
			return img, true
		}
	}
	return IdentityImage{}, false
}

// SuitablePhotoIDCount counts distinct known document kinds with at least one image.
func (c ClientContext) SuitablePhotoIDCount() int {
	seen := make(map[DocumentKind]struct{})
	for _, img := range c.IdentityImages {
		if img.DocumentKind.IsKnown() {
			seen[img.DocumentKind] = struct{}{}
		}
	}
	return len(seen)
}

// AddressEvidenceCount counts uploaded support documents that prove an address.
func (c ClientContext) AddressEvidenceCount() int {
	n := 0
	for _, doc := range c.SupportDocuments {
		if doc.Kind.IsAddressEvidence() {
			n++
		}
	}
	return n
}
