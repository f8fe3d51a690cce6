package ai

import (
	"context"

	"github.com/kotaelabs/kotae/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates assistant replies from conversation context.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete generates a reply from a system prompt, the prior
	// conversation turns, and the latest user message. The history slice
	// is ordered oldest first and may be empty.
	// Returns an error if reply generation fails.
	Complete(ctx context.Context, systemPrompt string, history []core.Turn, userMessage string) (string, error)
}

// IntentClassifier determines what a user message is asking for, so the
// conversation engine can decide whether a knowledge-base search is needed.
// Implementations must be thread-safe for concurrent use.
type IntentClassifier interface {
	// ClassifyIntent analyzes a user message in the context of the prior
	// turns and returns the detected intent. The history slice is ordered
	// oldest first and may be empty.
	// Returns an error if classification fails.
	ClassifyIntent(ctx context.Context, message string, history []core.Turn) (Intent, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder, Completer, and IntentClassifier
// instances, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the reply generation service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// IntentClassifier returns the intent classification service.
	// The returned IntentClassifier is safe for concurrent use.
	IntentClassifier() IntentClassifier

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
