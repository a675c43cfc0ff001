// internal/app/system/sanitize/sanitize.go
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips all HTML. Member-entered free text (notes, address
// lines) is stored plain and rendered by arbitrary clients, so nothing
// markup-shaped survives.
var strict = bluemonday.StrictPolicy()

// Text removes any HTML from a free-text field and trims the result.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Lines sanitizes each element of a free-text list (e.g. address
// lines), dropping entries that are empty after sanitizing.
func Lines(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if v := Text(s); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
