package render

import "github.com/goliatone/go-personform/pkg/model"

// RenderOptions carries per-session data front-ends use without mutating the
// form model.
type RenderOptions struct {
	// Values pre-populates fields. It also serves as the reset target.
	Values model.FormValues
	// Errors surfaces previously reported problems keyed by field path; they
	// are shown next to the matching prompt until the field is edited.
	Errors map[string][]string
}
