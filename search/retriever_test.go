package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kotaelabs/kotae/ai/mock"
	"github.com/kotaelabs/kotae/core"
	"github.com/kotaelabs/kotae/storage"
	storagebadger "github.com/kotaelabs/kotae/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedEmbedder returns a canned vector per text so similarity is controlled.
func fixedEmbedder(vectors map[string][]float32) *mock.Embedder {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return []float32{0, 1}, nil
	}
	return embedder
}

func seedRecords(t *testing.T, repo storage.RecordRepository, records map[string][]float32) {
	t.Helper()
	for url, vector := range records {
		_, err := repo.Upsert(context.Background(), &core.SupportRecord{
			Title:  "t",
			URL:    url,
			Vector: vector,
		})
		require.NoError(t, err)
	}
}

func TestRetrieve_RanksByScore(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(2)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	seedRecords(t, repo, map[string][]float32{
		"https://example.com/a": {0.9, 0.436},
		"https://example.com/b": {0.7, 0.714},
		"https://example.com/c": {0.5, 0.866},
	})

	embedder := fixedEmbedder(map[string][]float32{"料金": {1, 0}})
	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	matches, err := retriever.Retrieve(context.Background(), "料金")
	require.NoError(t, err)
	require.Len(t, matches, 2, "only scores above 0.60 survive")
	assert.Equal(t, "https://example.com/a", matches[0].Record.URL)
	assert.Equal(t, "https://example.com/b", matches[1].Record.URL)
}

func TestRetrieve_BlankQuery(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(2)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	embedder := mock.NewEmbedder()
	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	for _, query := range []string{"", "   ", "\n\t"} {
		_, err := retriever.Retrieve(context.Background(), query)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	}
	assert.Zero(t, embedder.CallCount(), "blank queries must not reach the embedder")
}

func TestRetrieve_EmptyResultIsNotError(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(2)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	seedRecords(t, repo, map[string][]float32{
		"https://example.com/a": {0, 1},
	})

	embedder := fixedEmbedder(map[string][]float32{"無関係な質問": {1, 0}})
	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	matches, err := retriever.Retrieve(context.Background(), "無関係な質問")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRetrieve_EmbeddingRetry(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(2)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	seedRecords(t, repo, map[string][]float32{
		"https://example.com/a": {1, 0},
	})

	calls := 0
	embedder := mock.NewEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		calls++
		if calls < 2 {
			return nil, errors.New("transient failure")
		}
		return []float32{1, 0}, nil
	}

	retriever, err := NewRetriever(repo, embedder, WithRetry(3, time.Millisecond))
	require.NoError(t, err)

	matches, err := retriever.Retrieve(context.Background(), "SIMロック")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, 2, calls, "should succeed on second attempt")
}

func TestRetrieve_EmbeddingExhaustion(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(2)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	embedErr := errors.New("embedding service down")
	embedder := mock.NewEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, embedErr
	}

	retriever, err := NewRetriever(repo, embedder, WithRetry(2, time.Millisecond))
	require.NoError(t, err)

	_, err = retriever.Retrieve(context.Background(), "SIMロック")
	assert.ErrorIs(t, err, embedErr)
}

func TestRetrieveWithMonitor(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(2)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	seedRecords(t, repo, map[string][]float32{
		"https://example.com/a": {1, 0},
	})

	embedder := fixedEmbedder(map[string][]float32{"質問": {1, 0}})
	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	matches, err := retriever.RetrieveWithMonitor(context.Background(), "質問", monitor)
	require.NoError(t, err)

	assert.Equal(t, "質問", monitor.query)
	assert.Equal(t, []float32{1, 0}, monitor.vector)
	assert.Equal(t, matches, monitor.matches)
}

func TestNewRetriever_Validation(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryRepository(2)
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	_, err = NewRetriever(nil, mock.NewEmbedder())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewRetriever(repo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewRetriever(repo, mock.NewEmbedder(), WithTopK(0))
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

type recordingMonitor struct {
	query   string
	vector  []float32
	matches []*core.QueryMatch
}

var _ RetrievalMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(query string)                 { m.query = query }
func (m *recordingMonitor) AfterEmbedding(vector []float32)    { m.vector = vector }
func (m *recordingMonitor) Finish(matches []*core.QueryMatch)  { m.matches = matches }
