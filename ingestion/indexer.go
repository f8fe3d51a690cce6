// Copyright 2025 Kotae Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/kotaelabs/kotae/ai"
	"github.com/kotaelabs/kotae/core"
	"github.com/kotaelabs/kotae/storage"
	"github.com/panjf2000/ants/v2"
)

// SourceEntry is one support page to index: a title to embed and the URL
// that identifies it. Metadata is carried through to the stored record.
type SourceEntry struct {
	Title    string            `json:"title"`
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Indexer embeds support pages and writes them to the record store.
// Entries are processed in concurrent batches; an entry whose stored record
// already carries the same title is skipped without an embedding call.
type Indexer struct {
	repository storage.RecordRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	batchSize  int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithPoolSize sets the worker pool size for concurrent batch processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}

		if ix.pool != nil {
			ix.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		ix.pool = pool
		return nil
	}
}

// WithBatchSize sets how many entries are embedded per API call.
// Default is 16.
func WithBatchSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		ix.batchSize = size
		return nil
	}
}

// WithRetry sets the retry policy for embedding calls.
// Defaults are 3 attempts with a 1s base delay.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(ix *Indexer) error {
		if maxRetries < 1 {
			maxRetries = 1
		}
		if baseDelay <= 0 {
			baseDelay = time.Second
		}
		ix.maxRetries = maxRetries
		ix.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an indexer over the given repository and embedder.
func NewIndexer(repository storage.RecordRepository, embedder ai.Embedder, opts ...Option) (*Indexer, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ix := &Indexer{
		repository: repository,
		embedder:   embedder,
		pool:       pool,
		batchSize:  16,
		maxRetries: 3,
		retryDelay: time.Second,
		logger:     slog.Default().With("component", "indexer"),
	}

	for _, opt := range opts {
		if optErr := opt(ix); optErr != nil {
			ix.Release()
			return nil, optErr
		}
	}

	return ix, nil
}

// Index embeds and stores the given entries, returning a per-entry report.
// Indexing is idempotent: an entry whose URL is already stored with an
// unchanged title is counted as skipped, and a changed title replaces the
// stored record in place. Individual failures never abort the run.
func (ix *Indexer) Index(ctx context.Context, entries []SourceEntry) (*Report, error) {
	report := &Report{}
	if len(entries) == 0 {
		return report, nil
	}

	ix.logger.Info("indexing entries", "entries", len(entries), "batchSize", ix.batchSize)

	var wg sync.WaitGroup
	for start := 0; start < len(entries); start += ix.batchSize {
		end := min(start+ix.batchSize, len(entries))
		batch := entries[start:end]

		wg.Add(1)
		submitErr := ix.pool.Submit(func() {
			defer wg.Done()
			ix.processBatch(ctx, batch, report)
		})
		if submitErr != nil {
			// Pool rejected the task (released or overloaded); fall back
			// to processing inline so no entry is silently dropped.
			ix.processBatch(ctx, batch, report)
			wg.Done()
		}
	}
	wg.Wait()

	report.finalize()
	ix.logger.Info("indexing complete",
		"indexed", report.Indexed,
		"skipped", report.Skipped,
		"failed", len(report.Failed))

	return report, ctx.Err()
}

// processBatch indexes one batch of entries, recording each outcome.
func (ix *Indexer) processBatch(ctx context.Context, batch []SourceEntry, report *Report) {
	pending := make([]SourceEntry, 0, len(batch))
	for _, entry := range batch {
		if ctx.Err() != nil {
			report.addFailed(entry, ctx.Err())
			continue
		}

		if entry.Title == "" {
			report.addFailed(entry, core.ErrEmptyTitle)
			continue
		}
		if entry.URL == "" {
			report.addFailed(entry, core.ErrEmptyURL)
			continue
		}

		unchanged, err := ix.isUnchanged(ctx, entry)
		if err != nil {
			report.addFailed(entry, err)
			continue
		}
		if unchanged {
			ix.logger.Debug("entry unchanged, skipping", "url", entry.URL)
			report.addSkipped()
			continue
		}

		pending = append(pending, entry)
	}

	if len(pending) == 0 {
		return
	}

	texts := make([]string, len(pending))
	for i, entry := range pending {
		texts[i] = entry.Title
	}

	var vectors [][]float32
	err := ai.RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = ix.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, ix.maxRetries, ix.retryDelay)
	if err == nil && len(vectors) != len(pending) {
		err = fmt.Errorf("embedding result mismatch. expected %d, received %d", len(pending), len(vectors))
	}
	if err != nil {
		ix.logger.Error("error generating embeddings", "entries", len(pending), "err", err)
		for _, entry := range pending {
			report.addFailed(entry, err)
		}
		return
	}

	for i, entry := range pending {
		_, err := ix.repository.Upsert(ctx, &core.SupportRecord{
			Title:    entry.Title,
			URL:      entry.URL,
			Vector:   vectors[i],
			Metadata: entry.Metadata,
		})
		if err != nil {
			ix.logger.Error("error storing record", "url", entry.URL, "err", err)
			report.addFailed(entry, err)
			continue
		}
		report.addIndexed()
	}
}

// isUnchanged reports whether the store already holds this URL with the
// same title, meaning the entry's embedding is still valid.
func (ix *Indexer) isUnchanged(ctx context.Context, entry SourceEntry) (bool, error) {
	existing, err := ix.repository.GetByURL(ctx, entry.URL)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.TitleHash == core.IDFromContent(entry.Title), nil
}

// Release releases the worker pool.
// The indexer should not be used after calling Release.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}
