// Package names splits roster and attendee names into comparable parts.
package names

import (
	"strings"

	"golang.org/x/text/cases"
)

// ParsedName is a name reduced to case-folded parts.
// FirstNamesArray holds every token of the first-name portion so members
// listed with several given names match on any of them.
type ParsedName struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	FirstNamesArray []string `json:"firstNamesArray"`
}

// Fold trims s and case-folds it for comparison.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Parse splits a roster display name.
//
// "Last, First Middle" splits on the first comma. Without a comma the first
// token is the family name and the rest is the first-name portion, which is
// how the roster prints unqualified names. A single token yields a last name only.
func Parse(fullName string) ParsedName {
	var last, first string
	if i := strings.Index(fullName, ","); i >= 0 {
		last = fullName[:i]
		first = fullName[i+1:]
	} else {
		tokens := strings.Fields(fullName)
		if len(tokens) == 0 {
			return ParsedName{FirstNamesArray: []string{}}
		}
		last = tokens[0]
		first = strings.Join(tokens[1:], " ")
	}
	return FromParts(first, last)
}

// FromParts builds a ParsedName from explicit first and last name fields,
// as supplied by the attendance CSV columns.
func FromParts(first, last string) ParsedName {
	tokens := strings.Fields(Fold(first))
	return ParsedName{
		FirstName:       strings.Join(tokens, " "),
		LastName:        strings.Join(strings.Fields(Fold(last)), " "),
		FirstNamesArray: append([]string{}, tokens...),
	}
}
