// Package templates substitutes {{token}} placeholders in message text.
package templates

import (
	"regexp"
	"strings"
)

var tokenRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// Render replaces every {{token}} with values[token]. Unknown tokens are left
// as written and values are inserted verbatim, without any escaping.
func Render(tpl string, values map[string]string) string {
	return tokenRe.ReplaceAllStringFunc(tpl, func(m string) string {
		key := strings.TrimSpace(m[2 : len(m)-2])
		if v, ok := values[key]; ok {
			return v
		}
		return m
	})
}
