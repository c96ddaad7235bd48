// Package address turns raw roster addresses into geocodable variants and
// resolves them through a geocoding service.
package address

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	stateCodeRe  = regexp.MustCompile(`\b[A-Z]{2}\b`)
	zipPlus4Re   = regexp.MustCompile(`\b(\d{5})-\d{4}\s*$`)
	zipRe        = regexp.MustCompile(`,?\s*\b\d{5}(?:-\d{4})?\s*$`)
	unitRe       = regexp.MustCompile(`(?i)\s*,?\s*\b(?:APT|APARTMENT|UNIT|STE|SUITE)\b\.?\s*(?:#?\s*\d[A-Z0-9-]*|#?\s*[A-Z]\b)`)
	hashUnitRe   = regexp.MustCompile(`\s*,?\s*#\s*[A-Za-z0-9-]+`)
	streetRe     = regexp.MustCompile(`^(\d+[A-Za-z]?\s+[^,]+?)(?:\s*,|\s+[A-Z]{2}\b|$)`)
	dupCommaRe   = regexp.MustCompile(`\s*,(?:\s*,)+`)
)

// Normalized is a raw address together with its geocoding variants, most
// specific first.
type Normalized struct {
	Original string   `json:"original"`
	Variants []string `json:"variants"`
}

// Normalize builds the ordered, de-duplicated variant list for raw.
//
// When the address has no two-letter state code and commonLocality is set,
// the locality is appended so a geocoder can place street-only addresses.
// The cleaned address without the locality is kept as the last variant.
func Normalize(raw, commonLocality string) Normalized {
	out := Normalized{Original: raw, Variants: []string{}}

	base := clean(raw)
	if base == "" {
		return out
	}

	seed := base
	if locality := clean(commonLocality); locality != "" && !stateCodeRe.MatchString(base) {
		seed = base + ", " + locality
	}

	var set variantSet
	noUnit := tidy(hashUnitRe.ReplaceAllString(unitRe.ReplaceAllString(seed, ""), ""))
	noComma := stripCommas(seed)

	set.add(seed)
	set.add(zipPlus4Re.ReplaceAllString(seed, "$1"))
	set.add(tidy(zipRe.ReplaceAllString(seed, "")))
	set.add(noUnit)
	set.add(noComma)
	set.add(stripCommas(noUnit))
	set.add(tidy(zipRe.ReplaceAllString(noComma, "")))
	if m := streetRe.FindStringSubmatch(noUnit); m != nil {
		set.add(m[1])
	}
	set.add(base)

	out.Variants = set.list
	return out
}

// clean trims, collapses whitespace and strips one layer of surrounding quotes.
func clean(s string) string {
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}

// tidy repairs punctuation left behind by token removal.
func tidy(s string) string {
	s = dupCommaRe.ReplaceAllString(s, ",")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, " ,", ",")
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), ","))
}

func stripCommas(s string) string {
	return tidy(strings.ReplaceAll(s, ",", " "))
}

type variantSet struct {
	list []string
	seen map[string]bool
}

func (v *variantSet) add(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if v.seen == nil {
		v.seen = map[string]bool{}
	}
	if v.seen[s] {
		return
	}
	v.seen[s] = true
	v.list = append(v.list, s)
}
