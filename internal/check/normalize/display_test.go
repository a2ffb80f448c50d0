package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"onboard/internal/check/models"
)

func TestFormatAddressForDisplay(t *testing.T) {
	tests := []struct {
		name     string
		address  models.Address
		expected string
	}{
		{
			name:     "full UK address in fixed order",
			address:  models.Address{Country: "GBR", FlatNumber: "3", BuildingNumber: "12", BuildingName: "Rose House", SubStreet: "Orchard Way", Street: "High Street", Town: "Bristol", Postcode: "BS1 1AA"},
			expected: "Flat 3, 12, Rose House, Orchard Way, High Street, Bristol, BS1 1AA",
		},
		{
			name:     "US address skips empty parts",
			address:  models.Address{Country: "USA", Line1: "1 Main St", Town: "Springfield", State: "IL", Postcode: "62701"},
			expected: "1 Main St, Springfield, IL, 62701",
		},
		{
			name:     "empty address",
			address:  models.Address{Country: "GBR"},
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAddressForDisplay(tt.address))
		})
	}
}
