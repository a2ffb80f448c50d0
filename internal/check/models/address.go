package models

import "regexp"

// Country codes with address rules of their own.
const (
	CountryGBR = "GBR"
	CountryUSA = "USA"
	CountryCAN = "CAN"
)

// Address is the canonical, country-aware address shape.
//
// Invariants:
//   - GBR: no line1/line2; at least one of flat number, building number or
//     building name; town and postcode present
//   - elsewhere: line1 and town present; USA and CAN also need state
type Address struct {
	Country        string `json:"country"`
	Town           string `json:"town,omitempty"`
	Postcode       string `json:"postcode,omitempty"`
	FlatNumber     string `json:"flat_number,omitempty"`
	BuildingNumber string `json:"building_number,omitempty"`
	BuildingName   string `json:"building_name,omitempty"`
	Street         string `json:"street,omitempty"`
	SubStreet      string `json:"sub_street,omitempty"`
	Line1          string `json:"line1,omitempty"`
	Line2          string `json:"line2,omitempty"`
	State          string `json:"state,omitempty"`
}

// AddressProblem is a single broken address invariant.
type AddressProblem struct {
	Field   string
	Message string
}

var iso3Pattern = regexp.MustCompile(`^[A-Z]{3}$`)

// IsZero reports whether no component is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// HasBuildingIdentifier reports whether any UK building identifier is present.
func (a Address) HasBuildingIdentifier() bool {
	return a.FlatNumber != "" || a.BuildingNumber != "" || a.BuildingName != ""
}

// Problems lists broken invariants in a fixed field order.
func (a Address) Problems() []AddressProblem {
	var problems []AddressProblem
	add := func(field, msg string) {
		problems = append(problems, AddressProblem{Field: field, Message: msg})
	}

	switch {
	case a.Country == "":
		add("country", "country is required")
	case !iso3Pattern.MatchString(a.Country):
		add("country", "country must be a three-letter code")
	}

	if a.Country == CountryGBR {
		if a.Line1 != "" {
			add("line1", "line1 is not used for UK addresses")
		}
		if a.Line2 != "" {
			add("line2", "line2 is not used for UK addresses")
		}
		if !a.HasBuildingIdentifier() {
			add("building", "a flat number, building number or building name is required")
		}
		if a.Town == "" {
			add("town", "town is required")
		}
		if a.Postcode == "" {
			add("postcode", "postcode is required")
		}
		return problems
	}

	if a.Line1 == "" {
		add("line1", "line1 is required")
	}
	if a.Town == "" {
		add("town", "town is required")
	}
	if (a.Country == CountryUSA || a.Country == CountryCAN) && a.State == "" {
		add("state", "state is required")
	}
	return problems
}

// Valid reports whether the address satisfies its country's invariants.
func (a Address) Valid() bool {
	return len(a.Problems()) == 0
}
