package tui

import (
	"log/slog"

	"github.com/goliatone/go-personform/pkg/render"
	"github.com/goliatone/go-personform/pkg/submit"
	"github.com/goliatone/go-personform/pkg/validation"
)

// Theme captures optional message prefixes the renderer applies when
// printing feedback. Keep minimal to avoid coupling renderer logic to ANSI
// specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format render.OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSchema overrides the validation schema.
func WithSchema(schema *validation.Schema) Option {
	return func(r *Renderer) {
		if schema != nil {
			r.schema = schema
		}
	}
}

// WithSubmitter overrides the submitter invoked once the form is valid.
func WithSubmitter(submitter *submit.Submitter) Option {
	return func(r *Renderer) {
		if submitter != nil {
			r.submitter = submitter
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxAttempts bounds how many times a failed submission is retried.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
