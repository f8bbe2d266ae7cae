package model

import (
	"errors"
	"sort"
)

// ErrUnknownField is returned when a path does not address a FormValues entry.
var ErrUnknownField = errors.New("model: unknown field")

// FieldError is the single validation error kind: a message attached to a
// field path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationErrors maps field paths to a human readable message. A missing
// key means the field is valid.
type ValidationErrors map[string]string

// Has reports whether path carries an error.
func (e ValidationErrors) Has(path string) bool {
	_, ok := e[path]
	return ok
}

// Len returns the number of invalid fields.
func (e ValidationErrors) Len() int { return len(e) }

// Paths returns the invalid field paths sorted for deterministic output.
func (e ValidationErrors) Paths() []string {
	if len(e) == 0 {
		return nil
	}
	out := make([]string, 0, len(e))
	for path := range e {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Errors flattens the mapping into FieldError values ordered by path.
func (e ValidationErrors) Errors() []FieldError {
	paths := e.Paths()
	if len(paths) == 0 {
		return nil
	}
	out := make([]FieldError, 0, len(paths))
	for _, path := range paths {
		out = append(out, FieldError{Path: path, Message: e[path]})
	}
	return out
}

// Err returns nil when there are no errors, otherwise an error joining every
// FieldError so callers can use errors.As on individual entries.
func (e ValidationErrors) Err() error {
	fieldErrs := e.Errors()
	if len(fieldErrs) == 0 {
		return nil
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fe)
	}
	return errors.Join(errs...)
}

// Clone returns an independent copy.
func (e ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
