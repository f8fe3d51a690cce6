package mock

import (
	"context"
	"fmt"

	"github.com/kotaelabs/kotae/core"
)

// Completer is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type Completer struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default canned-reply behavior.
	CompleteFunc func(ctx context.Context, systemPrompt string, history []core.Turn, userMessage string) (string, error)

	callCount int
}

// NewCompleter creates a mock completer with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewCompleter() *Completer {
	return &Completer{}
}

// Complete returns a deterministic reply that echoes the user message.
// Default behavior embeds the turn count so tests can assert history flow.
func (m *Completer) Complete(ctx context.Context, systemPrompt string, history []core.Turn, userMessage string) (string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, history, userMessage)
	}

	return fmt.Sprintf("mock reply to %q (history: %d turns)", userMessage, len(history)), nil
}

// CallCount returns the number of times Complete was called.
func (m *Completer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *Completer) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
}
