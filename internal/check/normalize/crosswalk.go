// Package normalize converts free-form and provider-returned addresses,
// jurisdiction codes and phone numbers into the canonical forms used by the
// check engine. Reference tables are embedded and loaded once.
package normalize

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed crosswalk.yaml
var crosswalkYAML []byte

// Jurisdiction is one crosswalk entry.
type Jurisdiction struct {
	TwoLetter    string   `yaml:"two"`
	ThreeLetter  string   `yaml:"three"`
	ProviderCode string   `yaml:"provider"`
	CallingCode  string   `yaml:"calling"`
	Name         string   `yaml:"name"`
	Aliases      []string `yaml:"aliases"`
}

// Confidence reports whether a lookup matched or fell back to the default.
type Confidence int

const (
	ConfidenceExact Confidence = iota
	ConfidenceDegraded
)

func (c Confidence) String() string {
	if c == ConfidenceDegraded {
		return "degraded"
	}
	return "exact"
}

// Resolution is the outcome of resolving a jurisdiction code.
type Resolution struct {
	Jurisdiction Jurisdiction
	Confidence   Confidence
}

// Degraded reports whether the default jurisdiction was substituted.
func (r Resolution) Degraded() bool {
	return r.Confidence == ConfidenceDegraded
}

// Crosswalk maps equivalent jurisdiction codes between coding schemes.
// A Crosswalk is read-only after construction.
type Crosswalk struct {
	entries   []Jurisdiction
	byKey     map[string]int
	fallback  int
	callingBy map[string]int
}

type crosswalkFile struct {
	Default       string         `yaml:"default"`
	Jurisdictions []Jurisdiction `yaml:"jurisdictions"`
}

// NewCrosswalk parses a crosswalk table. Every entry must carry all codes and
// no code or alias may map to two entries.
func NewCrosswalk(data []byte) (*Crosswalk, error) {
	var file crosswalkFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse crosswalk: %w", err)
	}
	cw := &Crosswalk{
		entries:   file.Jurisdictions,
		byKey:     make(map[string]int),
		callingBy: make(map[string]int),
		fallback:  -1,
	}
	for i, j := range cw.entries {
		if j.TwoLetter == "" || j.ThreeLetter == "" || j.ProviderCode == "" {
			return nil, fmt.Errorf("crosswalk entry %d: missing code", i)
		}
		keys := []string{j.TwoLetter, j.ThreeLetter, j.Name}
		keys = append(keys, j.Aliases...)
		for _, k := range keys {
			k = lookupKey(k)
			if k == "" {
				continue
			}
			if prev, ok := cw.byKey[k]; ok && prev != i {
				return nil, fmt.Errorf("crosswalk key %q maps to %s and %s", k, cw.entries[prev].TwoLetter, j.TwoLetter)
			}
			cw.byKey[k] = i
		}
		if j.CallingCode != "" {
			if _, ok := cw.callingBy[j.CallingCode]; !ok {
				cw.callingBy[j.CallingCode] = i
			}
		}
		if strings.EqualFold(j.TwoLetter, file.Default) {
			cw.fallback = i
		}
	}
	if cw.fallback < 0 {
		return nil, fmt.Errorf("crosswalk default %q has no entry", file.Default)
	}
	return cw, nil
}

var (
	defaultOnce      sync.Once
	defaultCrosswalk *Crosswalk
)

// Default returns the embedded crosswalk, loading it on first use.
func Default() *Crosswalk {
	defaultOnce.Do(func() {
		cw, err := NewCrosswalk(crosswalkYAML)
		if err != nil {
			panic(err)
		}
		defaultCrosswalk = cw
	})
	return defaultCrosswalk
}

func lookupKey(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// Resolve looks up a two-letter code, three-letter code, country name or alias.
// Unknown input resolves to the default jurisdiction with degraded confidence.
func (c *Crosswalk) Resolve(code string) Resolution {
	if i, ok := c.byKey[lookupKey(code)]; ok {
		return Resolution{Jurisdiction: c.entries[i], Confidence: ConfidenceExact}
	}
	return Resolution{Jurisdiction: c.entries[c.fallback], Confidence: ConfidenceDegraded}
}

// DefaultJurisdiction returns the fallback entry.
func (c *Crosswalk) DefaultJurisdiction() Jurisdiction {
	return c.entries[c.fallback]
}

// Entries returns a copy of the table in declaration order.
func (c *Crosswalk) Entries() []Jurisdiction {
	out := make([]Jurisdiction, len(c.entries))
	copy(out, c.entries)
	return out
}

// CallingCodes returns the distinct calling codes, longest first.
func (c *Crosswalk) CallingCodes() []string {
	codes := make([]string, 0, len(c.callingBy))
	for code := range c.callingBy {
		codes = append(codes, code)
	}
	sortLongestFirst(codes)
	return codes
}

// ByCallingCode returns the primary jurisdiction for a calling code (digits only).
func (c *Crosswalk) ByCallingCode(code string) (Jurisdiction, bool) {
	i, ok := c.callingBy[strings.TrimPrefix(code, "+")]
	if !ok {
		return Jurisdiction{}, false
	}
	return c.entries[i], true
}

// CountryCodeToThreeLetter translates any recognized code to ISO 3166 alpha-3.
func CountryCodeToThreeLetter(code string) (string, Confidence) {
	r := Default().Resolve(code)
	return r.Jurisdiction.ThreeLetter, r.Confidence
}

// CountryCodeToProviderCode translates any recognized code to the registry provider's code.
func CountryCodeToProviderCode(code string) (string, Confidence) {
	r := Default().Resolve(code)
	return r.Jurisdiction.ProviderCode, r.Confidence
}
