package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/kotaelabs/kotae/ai"
	"github.com/kotaelabs/kotae/core"
	"github.com/kotaelabs/kotae/storage"
)

// BatchProcessor re-embeds batches of support records and writes them back.
type BatchProcessor struct {
	repo           storage.RecordRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.RecordRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-embeds a batch of records with the current embedding model and
// upserts the results. When the new model produces vectors of a different
// size, the store's enforced dimension is migrated before the first write.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.SupportRecord) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Title
	}

	var vectors [][]float32
	err := ai.RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = bp.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(records) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(vectors))
	}

	// A model upgrade may change the vector size; migrate the store's
	// enforced dimension before writing the first re-embedded record.
	if newDim := len(vectors[0]); newDim != bp.repo.Dimension() {
		if err := bp.repo.Redimension(ctx, newDim); err != nil {
			return fmt.Errorf("failed to migrate store dimension to %d: %w", newDim, err)
		}
	}

	for i, record := range records {
		record.Vector = vectors[i]
		if _, err := bp.repo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("failed to update record %q: %w", record.URL, err)
		}
	}

	return nil
}
