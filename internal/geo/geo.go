// Package geo checks that a page plausibly belongs to the requested country.
package geo

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/FranksOps/leadburr/internal/lead"
)

// Validator matches page text against a country table.
type Validator struct {
	countries []country
}

// country is a table entry with its names pre-folded.
type country struct {
	name  string
	names []string
	codes []string
}

// NewValidator builds a validator over table, or the built-in table when
// none is given.
func NewValidator(table ...Country) *Validator {
	if len(table) == 0 {
		table = defaultCountries
	}
	v := &Validator{}
	for _, c := range table {
		v.countries = append(v.countries, compile(c))
	}
	return v
}

func compile(c Country) country {
	out := country{name: c.Name, codes: c.Codes}
	for _, n := range append([]string{c.Name}, c.Names...) {
		if f := fold(n); f != "" {
			out.names = append(out.names, f)
		}
	}
	return out
}

// Validate reports whether pageText is consistent with target. The target
// or the city appearing is enough; otherwise any other known country
// appearing rejects; with no evidence either way the page passes.
func (v *Validator) Validate(target, city, pageText string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return true
	}

	exact := strip(pageText)
	lower := strings.ToLower(exact)

	want := v.lookup(target)
	if want.found(lower, exact) {
		return true
	}
	if c := fold(city); c != "" && containsWord(lower, c) {
		return true
	}

	for _, other := range v.countries {
		if other.name == want.name {
			continue
		}
		if other.found(lower, exact) {
			return false
		}
	}
	return true
}

// Apply sets e.CountryValid for target.
func (v *Validator) Apply(target string, e *lead.Enriched) {
	e.CountryValid = v.Validate(target, e.City, e.PageText)
}

func (v *Validator) lookup(target string) country {
	f := fold(target)
	for _, c := range v.countries {
		for _, n := range c.names {
			if n == f {
				return c
			}
		}
		for _, code := range c.codes {
			if strings.EqualFold(code, target) {
				return c
			}
		}
	}
	return compile(Country{Name: target})
}

func (c country) found(lower, exact string) bool {
	for _, n := range c.names {
		if containsWord(lower, n) {
			return true
		}
	}
	for _, code := range c.codes {
		if containsWord(exact, code) {
			return true
		}
	}
	return false
}

// strip removes diacritics and collapses whitespace. A transform.Chain keeps
// state, so each call builds its own.
func strip(s string) string {
	accents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(accents, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

func fold(s string) string {
	return strings.ToLower(strip(s))
}

// containsWord reports whether needle occurs in text bounded by non-word
// characters on both sides.
func containsWord(text, needle string) bool {
	if needle == "" || text == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(text[start:], needle)
		if idx < 0 {
			return false
		}
		absIdx := start + idx
		endIdx := absIdx + len(needle)

		leftOK := absIdx == 0 || !isWordRune(lastRune(text[:absIdx])) || !isWordRune(firstRune(needle))
		rightOK := endIdx == len(text) || !isWordRune(firstRune(text[endIdx:])) || !isWordRune(lastRune(needle))

		if leftOK && rightOK {
			return true
		}
		start = absIdx + 1
	}
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
