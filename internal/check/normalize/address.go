package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"onboard/internal/check/models"
	dErrors "onboard/pkg/domain-errors"
)

// RawAddress carries address fragments as returned by a lookup provider or
// typed by a user. Either FreeText or the structured fields are used.
type RawAddress struct {
	Country        string
	FreeText       string
	FlatNumber     string
	BuildingNumber string
	BuildingName   string
	Street         string
	SubStreet      string
	Line1          string
	Line2          string
	Town           string
	State          string
	Postcode       string
}

func (r RawAddress) structured() bool {
	return r.FlatNumber != "" || r.BuildingNumber != "" || r.BuildingName != "" ||
		r.Street != "" || r.SubStreet != "" || r.Line1 != "" || r.Line2 != "" ||
		r.Town != "" || r.State != "" || r.Postcode != ""
}

var (
	ukPostcodePattern  = regexp.MustCompile(`^(?i)([A-Z]{1,2}\d[A-Z\d]?)\s*(\d[A-Z]{2})$`)
	usZipPattern       = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	caPostalPattern    = regexp.MustCompile(`^(?i)([A-Z]\d[A-Z])\s?(\d[A-Z]\d)$`)
	stateCodePattern   = regexp.MustCompile(`^[A-Za-z]{2}$`)
	genericPostcode    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{1,9}$`)
	postcodeThenTown   = regexp.MustCompile(`^(\d{4,6})\s+(\D.*)$`)
	flatTokenPattern   = regexp.MustCompile(`^(?i)(?:flat|apartment|apt\.?|unit)(?:\s*(\d[0-9A-Za-z]*)|\s+([0-9A-Za-z]*\d[0-9A-Za-z]*|[A-Za-z]{1,2}))\b[\s,]*`)
	buildingNumPattern = regexp.MustCompile(`^(\d+[A-Za-z]?)\b[\s,]*`)
	numericPattern     = regexp.MustCompile(`^\d+$`)
	numberTokenPattern = regexp.MustCompile(`^\d+[A-Za-z]?$`)
)

var thoroughfares = map[string]struct{}{
	"STREET": {}, "ST": {}, "ROAD": {}, "RD": {}, "LANE": {}, "LN": {},
	"AVENUE": {}, "AVE": {}, "DRIVE": {}, "DR": {}, "CLOSE": {}, "WAY": {},
	"PLACE": {}, "PL": {}, "CRESCENT": {}, "COURT": {}, "CT": {},
	"GARDENS": {}, "GROVE": {}, "TERRACE": {}, "HILL": {}, "SQUARE": {},
	"SQ": {}, "MEWS": {}, "ROW": {}, "WALK": {}, "PARADE": {}, "GREEN": {},
	"RISE": {}, "BOULEVARD": {}, "EMBANKMENT": {},
}

// ToCanonicalAddress converts raw fragments into a canonical Address for the
// country given in raw, or countryHint when raw has none. Country codes are
// resolved through the crosswalk; ConfidenceDegraded means the country was
// not recognised and the default jurisdiction was substituted.
//
// The best-effort address is always returned. When it still breaks its
// country's invariants the error wraps ErrMalformedAddress.
func ToCanonicalAddress(raw RawAddress, countryHint string) (models.Address, Confidence, error) {
	country := raw.Country
	if strings.TrimSpace(country) == "" {
		country = countryHint
	}
	iso3, confidence := CountryCodeToThreeLetter(country)

	var addr models.Address
	if raw.FreeText != "" && !raw.structured() {
		addr = parseFreeText(raw.FreeText, iso3)
	} else {
		addr = fromStructured(raw, iso3)
	}

	if problems := addr.Problems(); len(problems) > 0 {
		p := problems[0]
		return addr, confidence, dErrors.Wrap(
			fmt.Errorf("%w: %s", ErrMalformedAddress, p.Message),
			dErrors.CodeInvalidInput,
			"address "+p.Field,
		)
	}
	return addr, confidence, nil
}

// CanonicalizeAddress re-normalizes an address entered through the UI as
// structured fragments, so postcodes, country codes and UK line
// decomposition match what a provider lookup would have produced.
func CanonicalizeAddress(a models.Address) (models.Address, Confidence, error) {
	return ToCanonicalAddress(RawAddress{
		Country:        a.Country,
		FlatNumber:     a.FlatNumber,
		BuildingNumber: a.BuildingNumber,
		BuildingName:   a.BuildingName,
		Street:         a.Street,
		SubStreet:      a.SubStreet,
		Line1:          a.Line1,
		Line2:          a.Line2,
		Town:           a.Town,
		State:          a.State,
		Postcode:       a.Postcode,
	}, "")
}

func fromStructured(raw RawAddress, iso3 string) models.Address {
	addr := models.Address{
		Country:        iso3,
		Town:           clean(raw.Town),
		Postcode:       normalizePostcode(clean(raw.Postcode), iso3),
		FlatNumber:     clean(raw.FlatNumber),
		BuildingNumber: clean(raw.BuildingNumber),
		BuildingName:   clean(raw.BuildingName),
		Street:         clean(raw.Street),
		SubStreet:      clean(raw.SubStreet),
		State:          strings.ToUpper(clean(raw.State)),
	}
	line1, line2 := clean(raw.Line1), clean(raw.Line2)

	if iso3 != models.CountryGBR {
		addr.Line1, addr.Line2 = line1, line2
		if addr.Line1 == "" {
			addr.Line1 = joinNonEmpty(" ", addr.BuildingNumber, addr.BuildingName, addr.Street)
		}
		return addr
	}

	combined := joinNonEmpty(", ", line1, line2)
	if combined != "" {
		parts := decomposeUKLine(combined)
		addr.FlatNumber = firstNonEmpty(addr.FlatNumber, parts.FlatNumber)
		addr.BuildingNumber = firstNonEmpty(addr.BuildingNumber, parts.BuildingNumber)
		addr.BuildingName = firstNonEmpty(addr.BuildingName, parts.BuildingName)
		addr.Street = firstNonEmpty(addr.Street, parts.Street)
		addr.SubStreet = firstNonEmpty(addr.SubStreet, parts.SubStreet)
	}
	return addr
}

// parseFreeText reads a comma-separated address from the right: country
// name, postcode, state (USA/CAN), town; the rest is street-level detail.
func parseFreeText(text, iso3 string) models.Address {
	segments := splitSegments(text)
	addr := models.Address{Country: iso3}

	if n := len(segments); n > 0 {
		if r := Default().Resolve(segments[n-1]); !r.Degraded() && r.Jurisdiction.ThreeLetter == iso3 {
			segments = segments[:n-1]
		}
	}

	if n := len(segments); n > 0 {
		last := segments[n-1]
		switch {
		case iso3 == models.CountryUSA || iso3 == models.CountryCAN:
			if state, code, ok := splitStatePostcode(last, iso3); ok {
				addr.State, addr.Postcode = state, code
				segments = segments[:n-1]
			} else if isPostcode(last, iso3) {
				addr.Postcode = normalizePostcode(last, iso3)
				segments = segments[:n-1]
			}
		case iso3 != models.CountryGBR && postcodeThenTown.MatchString(last):
			m := postcodeThenTown.FindStringSubmatch(last)
			addr.Postcode, addr.Town = m[1], strings.TrimSpace(m[2])
			segments = segments[:n-1]
		case isPostcode(last, iso3):
			addr.Postcode = normalizePostcode(last, iso3)
			segments = segments[:n-1]
		}
	}

	if (iso3 == models.CountryUSA || iso3 == models.CountryCAN) && addr.State == "" {
		if n := len(segments); n > 1 && stateCodePattern.MatchString(segments[n-1]) {
			addr.State = strings.ToUpper(segments[n-1])
			segments = segments[:n-1]
		}
	}

	if addr.Town == "" {
		if n := len(segments); n > 1 {
			addr.Town = segments[n-1]
			segments = segments[:n-1]
		}
	}

	if iso3 == models.CountryGBR {
		parts := decomposeUKLine(strings.Join(segments, ", "))
		addr.FlatNumber = parts.FlatNumber
		addr.BuildingNumber = parts.BuildingNumber
		addr.BuildingName = parts.BuildingName
		addr.Street = parts.Street
		addr.SubStreet = parts.SubStreet
		return addr
	}

	if len(segments) > 0 {
		addr.Line1 = segments[0]
		addr.Line2 = strings.Join(segments[1:], ", ")
	}
	return addr
}

// ukLineParts is the result of decomposing a combined UK address line.
type ukLineParts struct {
	FlatNumber     string
	BuildingNumber string
	BuildingName   string
	Street         string
	SubStreet      string
}

// decomposeUKLine applies the ordered strip algorithm to a combined UK line:
// thoroughfares from the right, then a leading flat token, then a leading
// building number; the remainder is the building name unless purely numeric.
func decomposeUKLine(line string) ukLineParts {
	var parts ukLineParts
	segments := splitSegments(line)

	// 1. thoroughfares: the rightmost becomes street, the next sub-street.
	var streets []string
	for len(segments) > 0 && len(streets) < 2 {
		last := segments[len(segments)-1]
		prefix, street, ok := splitThoroughfare(last)
		if !ok {
			break
		}
		streets = append(streets, street)
		segments = segments[:len(segments)-1]
		if prefix != "" {
			segments = append(segments, prefix)
			break
		}
	}
	if len(streets) > 0 {
		parts.Street = streets[0]
	}
	if len(streets) > 1 {
		parts.SubStreet = streets[1]
	}

	rest := strings.Join(segments, ", ")

	// 2. flat token
	if m := flatTokenPattern.FindStringSubmatch(rest); m != nil {
		parts.FlatNumber = firstNonEmpty(m[1], m[2])
		rest = rest[len(m[0]):]
	}

	// 3. building number
	if m := buildingNumPattern.FindStringSubmatch(rest); m != nil {
		parts.BuildingNumber = m[1]
		rest = rest[len(m[0]):]
	}

	// 4. remainder
	rest = strings.Trim(rest, " ,")
	switch {
	case rest == "":
	case numericPattern.MatchString(rest):
		if parts.BuildingNumber == "" {
			parts.BuildingNumber = rest
		}
	default:
		parts.BuildingName = rest
	}
	return parts
}

// splitThoroughfare reports whether seg ends in a thoroughfare word. Any
// leading house or flat tokens are returned as prefix.
func splitThoroughfare(seg string) (prefix, street string, ok bool) {
	words := strings.Fields(seg)
	if len(words) == 0 {
		return "", "", false
	}
	if _, ok := thoroughfares[strings.ToUpper(strings.TrimSuffix(words[len(words)-1], "."))]; !ok {
		return "", "", false
	}
	if len(words) == 1 {
		return "", "", false
	}
	cut := 0
	for i, w := range words[:len(words)-1] {
		if numberTokenPattern.MatchString(w) {
			cut = i + 1
		}
	}
	return strings.Join(words[:cut], " "), strings.Join(words[cut:], " "), true
}

func splitStatePostcode(seg, iso3 string) (string, string, bool) {
	fields := strings.Fields(seg)
	if len(fields) < 2 || !stateCodePattern.MatchString(fields[0]) {
		return "", "", false
	}
	code := strings.Join(fields[1:], " ")
	if !isPostcode(code, iso3) {
		return "", "", false
	}
	return strings.ToUpper(fields[0]), normalizePostcode(code, iso3), true
}

func isPostcode(s, iso3 string) bool {
	switch iso3 {
	case models.CountryGBR:
		return ukPostcodePattern.MatchString(s)
	case models.CountryUSA:
		return usZipPattern.MatchString(s)
	case models.CountryCAN:
		return caPostalPattern.MatchString(s)
	default:
		return genericPostcode.MatchString(s) && strings.ContainsAny(s, "0123456789")
	}
}

func normalizePostcode(s, iso3 string) string {
	switch iso3 {
	case models.CountryGBR:
		if m := ukPostcodePattern.FindStringSubmatch(s); m != nil {
			return strings.ToUpper(m[1] + " " + m[2])
		}
	case models.CountryCAN:
		if m := caPostalPattern.FindStringSubmatch(s); m != nil {
			return strings.ToUpper(m[1] + " " + m[2])
		}
	}
	return s
}

func splitSegments(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, ",") {
		if seg = clean(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func joinNonEmpty(sep string, values ...string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
