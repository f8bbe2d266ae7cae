package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-personform/pkg/form"
	"github.com/goliatone/go-personform/pkg/model"
	"github.com/goliatone/go-personform/pkg/render"
	"github.com/goliatone/go-personform/pkg/submit"
	"github.com/goliatone/go-personform/pkg/validation"
)

const defaultMaxAttempts = 3

// Renderer implements render.Renderer for terminal-driven sessions. It walks
// the visible fields, re-prompting a field until it validates, then asks to
// submit and hands the values to the submitter.
type Renderer struct {
	driver       PromptDriver
	outputFormat render.OutputFormat
	schema       *validation.Schema
	submitter    *submit.Submitter
	logger       *slog.Logger
	maxAttempts  int
	theme        Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// default schema and submitter).
func New(options ...Option) (render.Renderer, error) {
	r := &Renderer{
		outputFormat: render.OutputFormatJSON,
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.schema == nil {
		r.schema = validation.NewSchema()
	}
	if r.submitter == nil {
		r.submitter = submit.New(submit.WithLogger(r.logger))
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return r.outputFormat.ContentType()
}

// Render runs the interactive session and returns the submitted values.
func (r *Renderer) Render(ctx context.Context, fm model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(fm.Fields) == 0 {
		return nil, errors.New("tui: form has no fields")
	}

	state := form.New(opts.Values,
		form.WithSchema(r.schema),
		form.WithFormModel(fm),
		form.WithLogger(r.logger),
	)

	prior := render.MapErrorPayload(fm, opts.Errors)
	for _, msg := range prior.Form {
		r.errorf(ctx, "%s", msg)
	}
	external := prior.FieldErrors()

	if fm.Title != "" {
		r.infof(ctx, "%s", fm.Title)
	}

	failures := 0
	for {
		if err := r.collect(ctx, fm, state, external); err != nil {
			return nil, err
		}
		external = nil

		submitNow, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
		if err != nil {
			return nil, err
		}
		if !submitNow {
			if !state.CanReset() {
				return nil, ErrAborted
			}
			reset, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Reset form?", Default: false})
			if err != nil {
				return nil, err
			}
			if !reset {
				return nil, ErrAborted
			}
			state.Reset()
			continue
		}

		values, err := state.BeginSubmit()
		if errors.Is(err, form.ErrInvalid) {
			r.reportErrors(ctx, fm, state.VisibleErrors())
			continue
		}
		if err != nil {
			return nil, err
		}

		r.infof(ctx, "Submitting...")
		receipt, err := r.submitter.Submit(ctx, values)
		state.EndSubmit()
		if err == nil {
			r.logger.Debug("tui submission complete", "id", receipt.ID)
			r.infof(ctx, "Submitted (%s)", receipt.ID)
			return render.Serialize(receipt.Values, r.outputFormat)
		}

		var subErr *submit.Error
		if !errors.As(err, &subErr) {
			return nil, err
		}
		failures++
		r.errorf(ctx, "%v", err)
		if failures >= r.maxAttempts {
			return nil, fmt.Errorf("%w: %w", ErrTooManyAttempts, err)
		}

		mapped := render.MapErrorPayload(fm, subErr.Fields)
		for _, msg := range mapped.Form {
			r.errorf(ctx, "%s", msg)
		}
		external = mapped.FieldErrors()
		if len(external) == 0 {
			retry, promptErr := r.driver.Confirm(ctx, ConfirmConfig{Message: "Retry submission?", Default: true})
			if promptErr != nil {
				return nil, promptErr
			}
			if !retry {
				return nil, subErr
			}
		}
	}
}

func (r *Renderer) collect(ctx context.Context, fm model.FormModel, state *form.State, external model.ValidationErrors) error {
	for _, field := range fm.Fields {
		if !field.Visible(state.Values()) {
			continue
		}
		if err := r.promptField(ctx, field, state, external[field.Path]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, state *form.State, prior string) error {
	if prior != "" {
		r.errorf(ctx, "Invalid %s: %s", displayName(field), prior)
	}

	for {
		var (
			value any
			err   error
		)
		switch field.Type {
		case model.FieldTypeBoolean:
			current, _ := state.Values().Get(field.Path)
			checked, _ := current.(bool)
			value, err = r.driver.Confirm(ctx, ConfirmConfig{
				Message: field.DisplayLabel(),
				Default: checked,
				Help:    field.Help,
			})
		case model.FieldTypePassword:
			value, err = r.driver.Password(ctx, InputConfig{
				Message: field.DisplayLabel(),
				Help:    field.Help,
			})
		default:
			value, err = r.driver.Input(ctx, InputConfig{
				Message: field.DisplayLabel(),
				Default: state.Values().Text(field.Path),
				Help:    field.Help,
			})
		}
		if err != nil {
			return err
		}

		if err := state.SetField(field.Path, value); err != nil {
			return err
		}
		if err := state.SetTouched(field.Path); err != nil {
			return err
		}

		msg := state.ErrorFor(field.Path)
		if msg == "" {
			if field.FormatOnBlur {
				if formatted := state.Values().Text(field.Path); formatted != "" && formatted != value {
					r.infof(ctx, "%s: %s", displayName(field), formatted)
				}
			}
			return nil
		}
		r.errorf(ctx, "Invalid %s: %s", displayName(field), msg)
	}
}

func (r *Renderer) reportErrors(ctx context.Context, fm model.FormModel, errs model.ValidationErrors) {
	for _, path := range errs.Paths() {
		label := path
		if field, ok := fm.Field(path); ok {
			label = displayName(field)
		}
		r.errorf(ctx, "Invalid %s: %s", label, errs[path])
	}
}

func (r *Renderer) infof(ctx context.Context, format string, args ...any) {
	_ = r.driver.Info(ctx, r.theme.InfoPrefix+fmt.Sprintf(format, args...))
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func displayName(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Path
}
