package storage

import (
	"context"

	"github.com/kotaelabs/kotae/core"
)

// RecordRepository persists support-page records and executes vector
// similarity queries over them. Implementations must be thread-safe and
// support concurrent access; writes to the same URL are serialized by the
// implementation so upserts stay atomic.
type RecordRepository interface {
	// Upsert inserts or replaces a record, keyed by URL.
	// The write is durable before Upsert returns.
	// Returns ErrDimensionMismatch if the record's vector length does not
	// match the repository's configured embedding dimension.
	Upsert(ctx context.Context, record *core.SupportRecord) (*core.SupportRecord, error)

	// GetByURL retrieves a single record by its URL.
	// Returns ErrNotFound if no record exists for the URL.
	GetByURL(ctx context.Context, url string) (*core.SupportRecord, error)

	// GetAll retrieves every stored record, ordered by insert sequence.
	// Used by full re-index runs.
	GetAll(ctx context.Context) ([]*core.SupportRecord, error)

	// Query returns up to topK records whose cosine similarity to vector is
	// >= minScore, ordered by score descending. Ties are broken by insert
	// sequence descending (most recently inserted first), so repeated
	// queries return identical orderings. An empty result is not an error.
	Query(ctx context.Context, vector []float32, topK int, minScore float32) ([]*core.QueryMatch, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Dimension returns the embedding dimension the repository enforces.
	Dimension() int

	// Redimension changes the enforced embedding dimension. Existing vectors
	// become stale; callers must follow up with a full re-index, since a
	// dimension change without one silently corrupts ranking.
	Redimension(ctx context.Context, dim int) error

	// Close releases repository resources.
	Close() error
}
