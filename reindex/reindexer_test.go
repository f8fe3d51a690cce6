package reindex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kotaelabs/kotae/ai/mock"
	"github.com/kotaelabs/kotae/core"
	"github.com/kotaelabs/kotae/storage"
	storagebadger "github.com/kotaelabs/kotae/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 8

func seedStore(t *testing.T, repo storage.RecordRepository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := repo.Upsert(context.Background(), &core.SupportRecord{
			Title:  fmt.Sprintf("サポート記事 %d", i),
			URL:    fmt.Sprintf("https://example.com/page-%d", i),
			Vector: mock.DeterministicVector(fmt.Sprintf("old-%d", i), testDim),
		})
		require.NoError(t, err)
	}
}

func testConfig() *Config {
	return &Config{
		BatchSize:      2,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func TestRun_ReembedsAllRecords(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(testDim)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	seedStore(t, repo, 5)

	embedder := mock.NewEmbedder()
	embedder.Dimension = testDim

	var out bytes.Buffer
	reindexer := NewReindexer(repo, embedder, testConfig(), &out)
	require.NoError(t, reindexer.Run(context.Background()))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count, "re-indexing never changes the record count")

	// Every vector now matches the deterministic embedding of its title.
	records, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	for _, record := range records {
		assert.Equal(t, mock.DeterministicVector(record.Title, testDim), record.Vector)
	}

	assert.Contains(t, out.String(), "Re-indexing complete")
}

func TestRun_MigratesDimension(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(testDim)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	seedStore(t, repo, 3)

	const newDim = 16
	embedder := mock.NewEmbedder()
	embedder.Dimension = newDim

	var out bytes.Buffer
	reindexer := NewReindexer(repo, embedder, testConfig(), &out)
	require.NoError(t, reindexer.Run(context.Background()))

	assert.Equal(t, newDim, repo.Dimension())

	records, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, record := range records {
		assert.Len(t, record.Vector, newDim)
	}
}

func TestRun_EmptyStore(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(testDim)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	var out bytes.Buffer
	reindexer := NewReindexer(repo, mock.NewEmbedder(), testConfig(), &out)
	require.NoError(t, reindexer.Run(context.Background()))

	assert.Contains(t, out.String(), "No records found")
}

func TestRun_EmbeddingFailure(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(testDim)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	seedStore(t, repo, 2)

	embedErr := errors.New("embedding service down")
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, embedErr
	}

	var out bytes.Buffer
	reindexer := NewReindexer(repo, embedder, testConfig(), &out)
	err = reindexer.Run(context.Background())
	assert.ErrorIs(t, err, embedErr)
}

func TestRecordIterator_Batches(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(testDim)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	seedStore(t, repo, 5)

	iterator := NewRecordIterator(repo, 2)
	var batchSizes []int
	err = iterator.ForEach(context.Background(), func(records []*core.SupportRecord) error {
		batchSizes = append(batchSizes, len(records))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, batchSizes)
}

func TestRecordIterator_StopsOnError(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(testDim)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	seedStore(t, repo, 4)

	stop := errors.New("stop")
	calls := 0
	iterator := NewRecordIterator(repo, 2)
	err = iterator.ForEach(context.Background(), func(records []*core.SupportRecord) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
