package models

// MatterCategory classifies the legal matter for document routing.
type MatterCategory string

const (
	CategoryConveyancing  MatterCategory = "conveyancing"
	CategoryOtherProperty MatterCategory = "other_property"
	CategoryPrivateClient MatterCategory = "private_client"
	CategoryGeneral       MatterCategory = "general"
)

// ParseMatterCategory returns the category for s, or false if unknown.
func ParseMatterCategory(s string) (MatterCategory, bool) {
	switch c := MatterCategory(s); c {
	case CategoryConveyancing, CategoryOtherProperty, CategoryPrivateClient, CategoryGeneral:
		return c, true
	}
	return "", false
}

// SubRole is the client's role within a matter category.
type SubRole string

const (
	SubRolePurchaser   SubRole = "purchaser"
	SubRoleSeller      SubRole = "seller"
	SubRoleRemortgagor SubRole = "remortgagor"
	SubRoleGiftor      SubRole = "giftor"
	SubRoleOther       SubRole = "other"
	SubRoleTenant      SubRole = "tenant"
	SubRoleLandlord    SubRole = "landlord"
	SubRoleOccupier    SubRole = "occupier"
)

// LinkedRecord is a registry search result the user confirmed as the client entity.
type LinkedRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Number       string `json:"number"`
	Jurisdiction string `json:"jurisdiction"`
	Confirmed    bool   `json:"confirmed"`
}

// Answers is the in-progress answer set gathered for the selected check.
// DateOfBirth holds the raw DDMMYYYY digits as entered.
type Answers struct {
	Reference string

	FirstName   string
	MiddleName  string
	LastName    string
	DateOfBirth string
	Address     *Address

	DocumentType DocumentKind
	FrontImageID string
	BackImageID  string

	Mobile        string
	MobileCountry string
	Email         string

	Jurisdiction     string
	RegisteredName   string
	RegisteredNumber string
	LinkedRecord     *LinkedRecord
}
