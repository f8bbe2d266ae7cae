package submit

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// Notifier receives successfully saved submissions.
type Notifier interface {
	Notify(ctx context.Context, receipt Receipt) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, receipt Receipt) error

// Notify delegates to the underlying function.
func (fn NotifierFunc) Notify(ctx context.Context, receipt Receipt) error {
	return fn(ctx, receipt)
}

// ConsoleNotifier prints the submitted payload the way the demo form did.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleNotifier writes to w, or stdout when w is nil.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleNotifier{w: w}
}

// Notify writes the notice followed by the indented payload.
func (n *ConsoleNotifier) Notify(ctx context.Context, receipt Receipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.w, "Form values printed to console\nSubmitted: %s\n", receipt.Payload)
	return err
}
