// Package export renders report rows for CSV downloads.
//
// Fields are quoted only when they contain a comma, a double quote or a line
// break, and embedded quotes are doubled. encoding/csv also quotes fields with
// a leading space, which the download format does not, so rows are built here.
package export

import (
	"strings"
)

// Field escapes a single CSV field.
func Field(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// Row joins escaped fields into one CSV line without a terminator.
func Row(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = Field(f)
	}
	return strings.Join(escaped, ",")
}

// Document joins rows with newlines, ending with a trailing newline.
func Document(rows []string) []byte {
	if len(rows) == 0 {
		return nil
	}
	return []byte(strings.Join(rows, "\n") + "\n")
}
