package badger

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/kotaelabs/kotae/core"
	"github.com/kotaelabs/kotae/storage"
)

// RecordRepository implements storage.RecordRepository for BadgerDB.
type RecordRepository struct {
	backend *Backend
	idSeq   *badger.Sequence

	mu  sync.RWMutex // guards dim
	dim int
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a record repository that enforces the given
// embedding dimension. The dimension is persisted in the store; opening an
// existing store with a different dimension fails with ErrDimensionMismatch,
// since mixing dimensions silently corrupts ranking.
func NewRecordRepository(backend *Backend, dim int) (storage.RecordRepository, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", storage.ErrInvalidQuery, dim)
	}

	stored, err := loadDimension(backend)
	if err != nil {
		return nil, err
	}
	if stored == 0 {
		if err := saveDimension(backend, dim); err != nil {
			return nil, err
		}
	} else if stored != dim {
		return nil, fmt.Errorf("%w: store holds %d-dimensional vectors, configured for %d",
			storage.ErrDimensionMismatch, stored, dim)
	}

	idSeq, err := backend.GetSequence(recordIDSeq)
	if err != nil {
		return nil, err
	}

	return &RecordRepository{
		backend: backend,
		idSeq:   idSeq,
		dim:     dim,
	}, nil
}

// Close releases the insert sequence.
func (r *RecordRepository) Close() error {
	return r.idSeq.Release()
}

// Dimension returns the enforced embedding dimension.
func (r *RecordRepository) Dimension() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dim
}

// Redimension changes the enforced embedding dimension. Existing vectors
// become stale and must be rewritten by a full re-index.
func (r *RecordRepository) Redimension(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", storage.ErrInvalidQuery, dim)
	}
	if err := saveDimension(r.backend, dim); err != nil {
		return err
	}
	r.mu.Lock()
	r.dim = dim
	r.mu.Unlock()
	return nil
}

// Upsert inserts or replaces a record, keyed by its URL.
func (r *RecordRepository) Upsert(ctx context.Context, record *core.SupportRecord) (*core.SupportRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if err := core.ValidateSupportRecord(record); err != nil {
		return nil, err
	}
	if len(record.Vector) != r.Dimension() {
		return nil, fmt.Errorf("%w: vector has %d dimensions, store expects %d",
			storage.ErrDimensionMismatch, len(record.Vector), r.Dimension())
	}

	record.Id = core.IDFromContent(record.URL)
	if record.TitleHash == 0 {
		record.TitleHash = core.IDFromContent(record.Title)
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(record.Id)

		// Preserve the original insert time on replace; the sequence number
		// is always refreshed so a replaced record ranks as most recent.
		// Timestamps are stored at microsecond precision, so truncate up
		// front to keep the returned record identical to the stored one.
		now := time.Now().UTC().Truncate(time.Microsecond)
		old, err := r.readRecord(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			record.InsertedAt = old.InsertedAt
		} else {
			record.InsertedAt = now
		}
		record.UpdatedAt = now

		seq, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if seq == 0 {
			seq, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		record.Seq = seq

		if err := tx.Set(key, storage.MarshalSupportRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return record, err
}

// GetByURL retrieves a single record by URL.
func (r *RecordRepository) GetByURL(ctx context.Context, url string) (*core.SupportRecord, error) {
	var result *core.SupportRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(core.IDFromContent(url))
		var err error
		result, err = r.readRecord(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetAll retrieves every stored record, ordered by insert sequence.
func (r *RecordRepository) GetAll(ctx context.Context) ([]*core.SupportRecord, error) {
	var results []*core.SupportRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.SupportRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalSupportRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.SupportRecord) int {
		if a.Seq < b.Seq {
			return -1
		}
		if a.Seq > b.Seq {
			return 1
		}
		return 0
	})

	return results, nil
}

// Count returns the number of stored records.
func (r *RecordRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Query finds records whose cosine similarity to the given vector clears
// minScore, ordered by score descending with insert sequence breaking ties.
func (r *RecordRepository) Query(ctx context.Context, vector []float32, topK int, minScore float32) ([]*core.QueryMatch, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", storage.ErrInvalidQuery, topK)
	}
	if len(vector) != r.Dimension() {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, store expects %d",
			storage.ErrDimensionMismatch, len(vector), r.Dimension())
	}

	var matches []*core.QueryMatch
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.SupportRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalSupportRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) != len(vector) {
				continue
			}

			score := cosineSimilarity(vector, record.Vector)
			if score >= minScore {
				matches = append(matches, &core.QueryMatch{
					Record: record,
					Score:  score,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Score descending, most recently inserted first on equal scores.
	slices.SortFunc(matches, func(a, b *core.QueryMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Record.Seq > b.Record.Seq {
			return -1
		}
		if a.Record.Seq < b.Record.Seq {
			return 1
		}
		return 0
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	if matches == nil {
		matches = []*core.QueryMatch{}
	}

	return matches, nil
}

// readRecord reads a record by key within a transaction.
// Returns nil (no error) if the key does not exist.
func (r *RecordRepository) readRecord(tx *badger.Txn, key []byte) (*core.SupportRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.SupportRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalSupportRecord(val)
		return err
	})
	return record, err
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

func loadDimension(backend *Backend) (int, error) {
	var dim int
	err := backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(dimensionMetaKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			id, err := storage.UnmarshalID(val)
			if err != nil {
				return err
			}
			dim = int(id)
			return nil
		})
	}, false)
	return dim, err
}

func saveDimension(backend *Backend, dim int) error {
	return backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(dimensionMetaKey), storage.MarshalID(core.ID(dim))); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
