package form

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans free-text input before it is stored.
type Sanitizer interface {
	Sanitize(string) string
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

type markupStripper struct{}

// StripMarkup removes any HTML from text input while keeping the characters
// a person can legitimately type (quotes, ampersands, angle brackets in
// prose).
func StripMarkup() Sanitizer { return markupStripper{} }

func (markupStripper) Sanitize(raw string) string {
	if !strings.ContainsAny(raw, "<>&") {
		return raw
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(textPolicy.Sanitize(raw))
}
