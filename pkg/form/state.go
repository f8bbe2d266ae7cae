// Package form holds the explicit state record behind a form session:
// current and initial values, touched flags, the derived error map, and the
// submitting flag. It is mutated only through discrete actions.
package form

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-personform/pkg/model"
	"github.com/goliatone/go-personform/pkg/phone"
	"github.com/goliatone/go-personform/pkg/validation"
)

// State is safe for concurrent use; each form instance owns its own State.
type State struct {
	mu sync.Mutex

	form      model.FormModel
	schema    *validation.Schema
	sanitizer Sanitizer
	logger    *slog.Logger

	initial     model.FormValues
	values      model.FormValues
	touched     map[string]bool
	errors      model.ValidationErrors
	submitting  bool
	submitCount int
}

// Option configures a State.
type Option func(*State)

// WithSchema overrides the validation schema.
func WithSchema(schema *validation.Schema) Option {
	return func(s *State) {
		if schema != nil {
			s.schema = schema
		}
	}
}

// WithFormModel overrides the field descriptors used for blur formatting and
// sanitising.
func WithFormModel(form model.FormModel) Option {
	return func(s *State) {
		s.form = form
	}
}

// WithSanitizer replaces the free-text sanitizer; nil disables sanitising.
func WithSanitizer(sanitizer Sanitizer) Option {
	return func(s *State) {
		s.sanitizer = sanitizer
	}
}

// WithLogger routes validation debug logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New seeds a state with initial values. Errors are computed immediately so
// Errors never reflects anything other than the current snapshot.
func New(initial model.FormValues, options ...Option) *State {
	s := &State{
		form:      model.DefaultForm(),
		schema:    validation.NewSchema(),
		sanitizer: StripMarkup(),
		logger:    slog.New(slog.DiscardHandler),
		initial:   initial,
		values:    initial,
		touched:   make(map[string]bool),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.revalidate()
	return s
}

// Snapshot is an immutable view of the state for rendering.
type Snapshot struct {
	Values      model.FormValues
	Errors      model.ValidationErrors
	Visible     model.ValidationErrors
	Touched     map[string]bool
	Dirty       bool
	Submitting  bool
	SubmitCount int
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[string]bool, len(s.touched))
	for k, v := range s.touched {
		touched[k] = v
	}
	return Snapshot{
		Values:      s.values,
		Errors:      s.errors.Clone(),
		Visible:     s.visibleLocked(),
		Touched:     touched,
		Dirty:       s.values != s.initial,
		Submitting:  s.submitting,
		SubmitCount: s.submitCount,
	}
}

// Values returns the current values.
func (s *State) Values() model.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values
}

// Errors returns every current validation error, touched or not.
func (s *State) Errors() model.ValidationErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors.Clone()
}

// VisibleErrors returns only the errors of touched fields, which is what a
// front-end should display.
func (s *State) VisibleErrors() model.ValidationErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

// ErrorFor returns the current error of path, or "".
func (s *State) ErrorFor(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors[path]
}

// Dirty reports whether the values differ from the initial values.
func (s *State) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values != s.initial
}

// Submitting reports whether a submission is in flight.
func (s *State) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// CanReset mirrors the reset button: enabled only when dirty and idle.
func (s *State) CanReset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.submitting && s.values != s.initial
}

// SetField stores value at path and revalidates. Free-text fields are
// sanitised first.
func (s *State) SetField(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if text, ok := value.(string); ok && s.sanitizer != nil {
		if field, found := s.form.Field(path); found && field.Type == model.FieldTypeString {
			value = s.sanitizer.Sanitize(text)
		}
	}
	if err := s.values.Set(path, value); err != nil {
		return fmt.Errorf("form: set field: %w", err)
	}
	s.revalidate()
	return nil
}

// SetValues applies every field of values through SetField, so free-text
// fields are sanitised exactly as if they had been typed one by one. Touched
// flags are left alone.
func (s *State) SetValues(values model.FormValues) error {
	for _, path := range model.Paths() {
		value, err := values.Get(path)
		if err != nil {
			return fmt.Errorf("form: set values: %w", err)
		}
		if err := s.SetField(path, value); err != nil {
			return err
		}
	}
	return nil
}

// SetTouched marks path as visited (blur). Fields flagged FormatOnBlur are
// normalised first; a phone that cannot be formatted falls back to the
// initial phone value.
func (s *State) SetTouched(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.values.Get(path); err != nil {
		return fmt.Errorf("form: touch field: %w", err)
	}
	if field, ok := s.form.Field(path); ok && field.FormatOnBlur && field.Type == model.FieldTypePhone {
		current := s.values.Text(path)
		if phone.IsFormatted(current) {
			s.touched[path] = true
			s.revalidate()
			return nil
		}
		formatted := phone.FormatPhone(current, s.initial.Text(path))
		if err := s.values.Set(path, formatted); err != nil {
			return fmt.Errorf("form: format field: %w", err)
		}
	}
	s.touched[path] = true
	s.revalidate()
	return nil
}

// BeginSubmit marks every field touched, revalidates, and flips the
// submitting flag when the values are valid. It returns the values snapshot
// to hand to the submitter.
func (s *State) BeginSubmit() (model.FormValues, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return model.FormValues{}, ErrAlreadySubmitting
	}
	for _, path := range model.Paths() {
		s.touched[path] = true
	}
	s.revalidate()
	if n := s.errors.Len(); n > 0 {
		return model.FormValues{}, fmt.Errorf("%w: %d field(s) failed", ErrInvalid, n)
	}
	s.submitting = true
	s.submitCount++
	return s.values, nil
}

// EndSubmit clears the submitting flag regardless of outcome.
func (s *State) EndSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}

// Reset restores the initial values and clears touched flags. A reset while
// submitting is ignored.
func (s *State) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return false
	}
	s.values = s.initial
	s.touched = make(map[string]bool)
	s.revalidate()
	return true
}

func (s *State) revalidate() {
	s.errors = s.schema.Validate(s.values)
	s.logger.Debug("form validated", "errors", s.errors.Len(), "paths", s.errors.Paths())
}

func (s *State) visibleLocked() model.ValidationErrors {
	out := make(model.ValidationErrors)
	for path, msg := range s.errors {
		if s.touched[path] {
			out[path] = msg
		}
	}
	return out
}
