package kotae

import (
	"context"
	"testing"
	"time"

	"github.com/kotaelabs/kotae/ai/mock"
	"github.com/kotaelabs/kotae/chat"
	"github.com/kotaelabs/kotae/ingestion"
	"github.com/kotaelabs/kotae/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase("",
		WithProvider(mock.NewProvider()),
		WithDimension(mock.DefaultDimension))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabase_EndToEnd(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	// Index a small knowledge base.
	indexer, err := db.NewIndexer(ingestion.WithPoolSize(1))
	require.NoError(t, err)
	defer indexer.Release()

	report, err := indexer.Index(ctx, []ingestion.SourceEntry{
		{Title: "SIMロック解除方法", URL: "https://example.com/sim-unlock"},
		{Title: "料金プランの変更", URL: "https://example.com/plans"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Indexed)

	// The mock embedder is deterministic, so a record's own title is its
	// own best match.
	retriever, err := db.NewRetriever(search.WithMinScore(0.99))
	require.NoError(t, err)

	matches, err := retriever.Retrieve(ctx, "SIMロック解除方法")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "https://example.com/sim-unlock", matches[0].Record.URL)

	// A full conversation turn through the orchestrator.
	orch, err := db.NewOrchestrator(
		[]search.Option{search.WithMinScore(0.99)},
		[]chat.Option{chat.WithRetry(1, time.Millisecond)})
	require.NoError(t, err)

	result, err := orch.Ask(ctx, "", "SIMロック解除方法")
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.Contains(t, result.Reply, "https://example.com/sim-unlock")
}

func TestNewDatabase_DimensionPersists(t *testing.T) {
	dir := t.TempDir()

	db, err := NewDatabase(dir,
		WithProvider(mock.NewProvider()),
		WithDimension(8))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening with a different dimension must fail.
	_, err = NewDatabase(dir,
		WithProvider(mock.NewProvider()),
		WithDimension(16))
	assert.Error(t, err)
}

func TestDatabase_DefaultDimension(t *testing.T) {
	db := newTestDatabase(t)
	assert.Equal(t, mock.DefaultDimension, db.RecordRepository().Dimension())
}
