package submit

import (
	"errors"
	"fmt"
)

// ErrSubmitInProgress is returned when Submit is called while another
// submission on the same Submitter is still in flight.
var ErrSubmitInProgress = errors.New("submit: submission already in progress")

// Kind classifies submission failures.
type Kind string

const (
	// KindNetwork signals the save could not reach its destination.
	KindNetwork Kind = "network"
	// KindRejected signals the destination refused the payload, optionally
	// with per-field messages.
	KindRejected Kind = "rejected"
)

// Error is the failure type returned by Submit when a Notifier fails.
type Error struct {
	Kind   Kind
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("submit: %s failure", e.Kind)
	}
	return fmt.Sprintf("submit: %s failure: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Rejected builds a KindRejected error carrying field messages keyed by the
// destination's own paths.
func Rejected(err error, fields map[string][]string) *Error {
	return &Error{Kind: KindRejected, Fields: fields, Err: err}
}

// Network builds a KindNetwork error.
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}
