package normalize

import (
	"strings"

	"onboard/internal/check/models"
)

// Dialect selects the provider-specific address rendering.
type Dialect int

const (
	// DialectVerification uses ISO alpha-3 countries and canonical field names.
	DialectVerification Dialect = iota
	// DialectRegistry uses registry provider codes and premises/line fields.
	DialectRegistry
)

// AddressForProvider renders a canonical address in the given dialect.
// Jurisdiction translation happens here and nowhere earlier.
func AddressForProvider(a models.Address, d Dialect) map[string]any {
	out := make(map[string]any)
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}

	switch d {
	case DialectRegistry:
		code, _ := CountryCodeToProviderCode(a.Country)
		flat := ""
		if a.FlatNumber != "" {
			flat = "Flat " + a.FlatNumber
		}
		set("country_code", code)
		set("premises", joinNonEmpty(" ", flat, a.BuildingNumber, a.BuildingName))
		set("address_line_1", firstNonEmpty(a.Street, a.Line1))
		set("address_line_2", firstNonEmpty(a.SubStreet, a.Line2))
		set("locality", a.Town)
		set("region", a.State)
		set("postal_code", a.Postcode)
	default:
		iso3, _ := CountryCodeToThreeLetter(a.Country)
		set("country", iso3)
		set("flat_number", a.FlatNumber)
		set("building_number", a.BuildingNumber)
		set("building_name", a.BuildingName)
		set("sub_street", a.SubStreet)
		set("street", a.Street)
		set("line1", a.Line1)
		set("line2", a.Line2)
		set("town", a.Town)
		set("state", a.State)
		set("postcode", a.Postcode)
	}
	return out
}
