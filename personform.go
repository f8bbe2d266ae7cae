// Package personform is the top-level entry point: phone formatting,
// validation and submission of the personal-information form without
// wiring the individual packages by hand.
package personform

import (
	"context"

	"github.com/goliatone/go-personform/pkg/form"
	"github.com/goliatone/go-personform/pkg/model"
	"github.com/goliatone/go-personform/pkg/phone"
	"github.com/goliatone/go-personform/pkg/render"
	"github.com/goliatone/go-personform/pkg/renderers/tui"
	"github.com/goliatone/go-personform/pkg/submit"
	"github.com/goliatone/go-personform/pkg/validation"
)

// FormValues aliases model.FormValues for callers importing only the root
// package.
type FormValues = model.FormValues

// ValidationErrors maps field paths to their first message.
type ValidationErrors = model.ValidationErrors

// Receipt describes a completed submission.
type Receipt = submit.Receipt

// ErrInvalid is returned by Submit when the values fail validation.
var ErrInvalid = form.ErrInvalid

// FormatPhone normalises raw into "(AAA) BBB-CCCC" or "+1 (AAA) BBB-CCCC",
// returning fallback when raw does not hold a North American number.
func FormatPhone(raw, fallback string) string {
	return phone.FormatPhone(raw, fallback)
}

// Validate runs the default rule set, password sentinel included.
func Validate(values FormValues) ValidationErrors {
	return validation.Validate(values)
}

// Submit validates values with schema (the default one when nil) and, when
// there are no errors, saves them with a submitter built from options for
// this call alone. Free text is sanitised first, as in the interactive form.
// Invalid values never reach the submitter; the returned error wraps
// ErrInvalid and carries the field errors.
func Submit(ctx context.Context, schema *validation.Schema, values FormValues, options ...submit.Option) (Receipt, error) {
	state := form.New(FormValues{}, form.WithSchema(schema))
	if err := state.SetValues(values); err != nil {
		return Receipt{}, err
	}
	clean, err := state.BeginSubmit()
	if err != nil {
		return Receipt{}, &SubmitError{Err: err, Fields: state.Errors()}
	}
	defer state.EndSubmit()
	return submit.New(options...).Submit(ctx, clean)
}

// SubmitError reports the field errors that blocked a submission.
type SubmitError struct {
	Err    error
	Fields ValidationErrors
}

func (e *SubmitError) Error() string {
	return e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// NewTerminalRenderer exposes the survey-backed renderer from the top-level
// module.
func NewTerminalRenderer(options ...tui.Option) (render.Renderer, error) {
	return tui.New(options...)
}
