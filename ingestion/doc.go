// Package ingestion indexes support pages into the record store.
//
// The Indexer type manages the indexing workflow for source entries:
//   - Validating titles and URLs
//   - Skipping entries whose stored record is unchanged
//   - Generating embeddings in concurrent batches with retry
//   - Upserting records keyed by URL
//
// Batches are processed concurrently using a worker pool to maximize
// throughput. A failing entry is recorded in the run report and never
// aborts the rest of the batch.
package ingestion
