package normalize

import (
	"strings"

	"onboard/internal/check/models"
)

// FormatAddressForDisplay joins the non-empty components with ", " in a fixed
// order. Country is shown separately by callers and is not included.
// The output is for people only; never validate against it.
func FormatAddressForDisplay(a models.Address) string {
	flat := ""
	if a.FlatNumber != "" {
		flat = "Flat " + a.FlatNumber
	}
	components := []string{
		flat,
		a.BuildingNumber,
		a.BuildingName,
		a.SubStreet,
		a.Street,
		a.Line1,
		a.Line2,
		a.Town,
		a.State,
		a.Postcode,
	}
	parts := make([]string, 0, len(components))
	for _, c := range components {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, ", ")
}
