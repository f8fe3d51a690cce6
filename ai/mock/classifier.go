package mock

import (
	"context"

	"github.com/kotaelabs/kotae/ai"
	"github.com/kotaelabs/kotae/core"
)

// IntentClassifier is a test double for ai.IntentClassifier.
// It allows custom behavior injection via function fields.
type IntentClassifier struct {
	// ClassifyIntentFunc is called by ClassifyIntent if set.
	// If nil, every message classifies as ai.IntentSearch.
	ClassifyIntentFunc func(ctx context.Context, message string, history []core.Turn) (ai.Intent, error)

	callCount int
}

// NewIntentClassifier creates a mock classifier that treats every message
// as a search question.
// Note: Returns concrete type to allow test assertions.
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{}
}

// ClassifyIntent returns the injected classification, or ai.IntentSearch.
func (m *IntentClassifier) ClassifyIntent(ctx context.Context, message string, history []core.Turn) (ai.Intent, error) {
	m.callCount++

	if m.ClassifyIntentFunc != nil {
		return m.ClassifyIntentFunc(ctx, message, history)
	}

	return ai.IntentSearch, nil
}

// CallCount returns the number of times ClassifyIntent was called.
func (m *IntentClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *IntentClassifier) Reset() {
	m.callCount = 0
	m.ClassifyIntentFunc = nil
}
