package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined
	// to submit.
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when a submission keeps failing after
	// the configured number of retries.
	ErrTooManyAttempts = errors.New("tui: too many submission attempts")
)
