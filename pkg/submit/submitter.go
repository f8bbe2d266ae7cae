// Package submit simulates the asynchronous save that follows a valid form
// submission: a fixed pause standing in for network latency, a log line
// carrying the payload, and a success notification.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-personform/pkg/model"
)

// DefaultDelay matches the pause used by the demo form.
const DefaultDelay = time.Second

// Receipt describes a completed submission.
type Receipt struct {
	ID          string           `json:"id"`
	SubmittedAt time.Time        `json:"submittedAt"`
	Values      model.FormValues `json:"values"`
	Payload     []byte           `json:"-"`
}

// Submitter performs at most one submission at a time.
type Submitter struct {
	delay    time.Duration
	logger   *slog.Logger
	notifier Notifier
	now      func() time.Time
	newID    func() string

	inFlight atomic.Bool
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithDelay overrides the simulated latency. Zero disables the pause.
func WithDelay(delay time.Duration) Option {
	return func(s *Submitter) {
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Submitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNotifier replaces the success notification sink.
func WithNotifier(notifier Notifier) Option {
	return func(s *Submitter) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithClock overrides the time source used for receipts.
func WithClock(now func() time.Time) Option {
	return func(s *Submitter) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides receipt id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Submitter) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New constructs a Submitter with the default delay and a console notifier.
func New(options ...Option) *Submitter {
	s := &Submitter{
		delay:    DefaultDelay,
		logger:   slog.Default(),
		notifier: NewConsoleNotifier(nil),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// InFlight reports whether a submission is currently running.
func (s *Submitter) InFlight() bool {
	return s.inFlight.Load()
}

// Submit waits for the configured delay, logs the payload, and notifies the
// sink. A call made while another is running fails fast with
// ErrSubmitInProgress. The wait ends early only if ctx is cancelled.
func (s *Submitter) Submit(ctx context.Context, values model.FormValues) (Receipt, error) {
	if ctx == nil {
		return Receipt{}, errors.New("submit: context is required")
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return Receipt{}, ErrSubmitInProgress
	}
	defer s.inFlight.Store(false)

	if err := s.wait(ctx); err != nil {
		return Receipt{}, fmt.Errorf("submit: %w", err)
	}

	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return Receipt{}, fmt.Errorf("submit: encode payload: %w", err)
	}
	receipt := Receipt{
		ID:          s.newID(),
		SubmittedAt: s.now(),
		Values:      values,
		Payload:     payload,
	}

	if err := s.notifier.Notify(ctx, receipt); err != nil {
		s.logger.Warn("form submission failed", "id", receipt.ID, "error", err)
		var subErr *Error
		if errors.As(err, &subErr) {
			return Receipt{}, subErr
		}
		return Receipt{}, Rejected(err, nil)
	}

	s.logger.Info("form submitted", "id", receipt.ID, "payload", string(payload))
	return receipt, nil
}

func (s *Submitter) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
