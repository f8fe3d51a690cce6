package ingestion

import (
	"cmp"
	"slices"
	"sync"
)

// FailedEntry records a single source entry that could not be indexed,
// along with the error that stopped it.
type FailedEntry struct {
	Entry SourceEntry
	Err   error
}

// Report summarizes the outcome of an indexing run. Counts are per entry:
// every input entry lands in exactly one of the three buckets.
type Report struct {
	// Indexed is the number of entries embedded and written to the store.
	Indexed int

	// Skipped is the number of entries left untouched because the stored
	// record already carries the same title.
	Skipped int

	// Failed lists entries that could not be indexed, sorted by URL.
	Failed []FailedEntry

	mu sync.Mutex
}

// Total returns the number of entries the run considered.
func (r *Report) Total() int {
	return r.Indexed + r.Skipped + len(r.Failed)
}

// HasFailures reports whether any entry failed.
func (r *Report) HasFailures() bool {
	return len(r.Failed) > 0
}

func (r *Report) addIndexed() {
	r.mu.Lock()
	r.Indexed++
	r.mu.Unlock()
}

func (r *Report) addSkipped() {
	r.mu.Lock()
	r.Skipped++
	r.mu.Unlock()
}

func (r *Report) addFailed(entry SourceEntry, err error) {
	r.mu.Lock()
	r.Failed = append(r.Failed, FailedEntry{Entry: entry, Err: err})
	r.mu.Unlock()
}

// finalize sorts the failure list so reports are deterministic regardless
// of worker scheduling.
func (r *Report) finalize() {
	slices.SortFunc(r.Failed, func(a, b FailedEntry) int {
		return cmp.Compare(a.Entry.URL, b.Entry.URL)
	})
}
