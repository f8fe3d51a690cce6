package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kotaelabs/kotae/ai"
	"github.com/kotaelabs/kotae/core"
	"github.com/kotaelabs/kotae/storage"
)

// Retrieval defaults, matching the support knowledge base this was tuned
// against: three references per answer, cosine similarity at least 0.60.
const (
	DefaultTopK     = 3
	DefaultMinScore = 0.60
)

// Retriever finds support records semantically similar to a text query.
type Retriever struct {
	repository storage.RecordRepository
	embedder   ai.Embedder
	topK       int
	minScore   float32
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTopK sets the maximum number of matches returned per query.
// Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(r *Retriever) error {
		if topK < 1 {
			return fmt.Errorf("%w: topK must be positive, got %d", storage.ErrInvalidQuery, topK)
		}
		r.topK = topK
		return nil
	}
}

// WithMinScore sets the similarity threshold below which matches are dropped.
// Default is DefaultMinScore.
func WithMinScore(minScore float32) Option {
	return func(r *Retriever) error {
		r.minScore = minScore
		return nil
	}
}

// WithRetry sets the retry policy for query embedding calls.
// Defaults are 3 attempts with a 1s base delay.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(r *Retriever) error {
		if maxRetries < 1 {
			maxRetries = 1
		}
		if baseDelay <= 0 {
			baseDelay = time.Second
		}
		r.maxRetries = maxRetries
		r.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever over the given repository and embedder.
func NewRetriever(repository storage.RecordRepository, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		repository: repository,
		embedder:   embedder,
		topK:       DefaultTopK,
		minScore:   DefaultMinScore,
		maxRetries: 3,
		retryDelay: time.Second,
		logger:     slog.Default().With("component", "retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve finds the records most similar to the query text.
// Returns up to topK matches ranked by score; an empty slice means nothing
// cleared the similarity threshold and is not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]*core.QueryMatch, error) {
	return r.RetrieveWithMonitor(ctx, query, nil)
}

// RetrieveWithMonitor finds similar records with monitoring.
// The monitor receives callbacks at each stage of the retrieval process.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query string, monitor RetrievalMonitor) ([]*core.QueryMatch, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	// Reject blank queries before spending an embedding call.
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is blank", storage.ErrInvalidQuery)
	}

	monitor.Start(query)

	var vector []float32
	err := ai.RetryWithBackoff(ctx, func() error {
		var embedErr error
		vector, embedErr = r.embedder.EmbedText(ctx, query)
		return embedErr
	}, r.maxRetries, r.retryDelay)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(vector)

	matches, err := r.repository.Query(ctx, vector, r.topK, r.minScore)
	if err != nil {
		r.logger.Error("error querying for similar records", "err", err)
		return nil, err
	}

	r.logger.Debug("retrieval complete", "query", query, "matches", len(matches))
	monitor.Finish(matches)

	return matches, nil
}

// TopK returns the configured result limit.
func (r *Retriever) TopK() int {
	return r.topK
}

// MinScore returns the configured similarity threshold.
func (r *Retriever) MinScore() float32 {
	return r.minScore
}
