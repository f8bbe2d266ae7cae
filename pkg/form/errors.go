package form

import "errors"

var (
	// ErrAlreadySubmitting is returned by BeginSubmit while a submission is
	// in flight.
	ErrAlreadySubmitting = errors.New("form: submission already in progress")
	// ErrInvalid is returned by BeginSubmit when the current values fail
	// validation; State.Errors carries the details.
	ErrInvalid = errors.New("form: values are invalid")
)
