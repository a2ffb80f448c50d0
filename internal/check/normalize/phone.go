package normalize

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"onboard/internal/check/models"
)

const (
	minNationalDigits = 4
	maxNationalDigits = 14
)

var phoneFormatting = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "", "/", "", "\t", "")

func sortLongestFirst(codes []string) {
	slices.SortFunc(codes, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

// ParsePhone splits raw into country calling code and national number.
// International numbers are matched longest-prefix-first against the calling
// code table; a leading trunk 0 takes the calling code of defaultJurisdiction
// (any code the crosswalk resolves, falling back to its default).
func ParsePhone(raw, defaultJurisdiction string) (models.Phone, error) {
	return Default().ParsePhone(raw, defaultJurisdiction)
}

// ParsePhone parses raw using this crosswalk's calling code table.
func (c *Crosswalk) ParsePhone(raw, defaultJurisdiction string) (models.Phone, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return models.Phone{}, fmt.Errorf("%w: empty", ErrUnparseablePhone)
	}
	s = strings.ReplaceAll(s, "(0)", "")
	s = phoneFormatting.Replace(s)
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}

	var phone models.Phone
	switch {
	case strings.HasPrefix(s, "+"):
		digits := s[1:]
		if !isDigits(digits) {
			return models.Phone{}, fmt.Errorf("%w: %q contains non-digits", ErrUnparseablePhone, raw)
		}
		code, ok := c.matchCallingCode(digits)
		if !ok {
			return models.Phone{}, fmt.Errorf("%w: unknown calling code in %q", ErrUnparseablePhone, raw)
		}
		phone = models.Phone{CountryCallingCode: "+" + code, NationalNumber: digits[len(code):]}
	case strings.HasPrefix(s, "0"):
		if !isDigits(s) {
			return models.Phone{}, fmt.Errorf("%w: %q contains non-digits", ErrUnparseablePhone, raw)
		}
		j := c.Resolve(defaultJurisdiction).Jurisdiction
		phone = models.Phone{CountryCallingCode: "+" + j.CallingCode, NationalNumber: s[1:]}
	default:
		return models.Phone{}, fmt.Errorf("%w: %q has no international or trunk prefix", ErrUnparseablePhone, raw)
	}

	if n := len(phone.NationalNumber); n < minNationalDigits || n > maxNationalDigits {
		return models.Phone{}, fmt.Errorf("%w: national number of %d digits", ErrUnparseablePhone, n)
	}
	return phone, nil
}

func (c *Crosswalk) matchCallingCode(digits string) (string, bool) {
	for _, code := range c.CallingCodes() {
		if strings.HasPrefix(digits, code) {
			return code, true
		}
	}
	return "", false
}

// PhoneRegion returns the primary two-letter region for a parsed number.
func PhoneRegion(p models.Phone) (string, bool) {
	j, ok := Default().ByCallingCode(p.CountryCallingCode)
	if !ok {
		return "", false
	}
	return j.TwoLetter, true
}

// IsMobile reports whether p is a valid mobile-class number. When jurisdiction
// is non-empty the number must also belong to that jurisdiction.
// Fixed-line-only numbers are rejected.
func IsMobile(p models.Phone, jurisdiction string) bool {
	num, err := phonenumbers.Parse(p.E164(), "")
	if err != nil {
		return false
	}
	if jurisdiction != "" {
		if !phonenumbers.IsValidNumberForRegion(num, Default().Resolve(jurisdiction).Jurisdiction.TwoLetter) {
			return false
		}
	} else if !phonenumbers.IsValidNumber(num) {
		return false
	}
	switch phonenumbers.GetNumberType(num) {
	case phonenumbers.MOBILE, phonenumbers.FIXED_LINE_OR_MOBILE:
		return true
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
