// Package render defines the front-end contract for collecting form values
// plus the shared helpers front-ends use: output serialisation of a values
// snapshot and mapping of external error payloads onto form field paths.
package render

import (
	"context"

	"github.com/goliatone/go-personform/pkg/model"
)

// Renderer drives a complete form session (collect, validate, submit) and
// returns the serialised values that were submitted.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
