// Package textclean converts raw article markup into plain text.
package textclean

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// Clean strips markup from raw HTML, decodes entities, and collapses
// whitespace runs into single spaces. Malformed markup degrades to
// best-effort stripping; Clean never fails. Empty input yields "".
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	// StrictPolicy removes every tag and re-escapes text content,
	// so entity decoding has to happen after sanitization.
	text := stripPolicy.Sanitize(raw)
	text = html.UnescapeString(text)

	return strings.Join(strings.Fields(text), " ")
}
