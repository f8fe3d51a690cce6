package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from content via hashing, so identical content always maps
// to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Role identifies the author of a conversation turn.
type Role int

const (
	// RoleUser represents the human asking questions.
	RoleUser Role = iota + 1
	// RoleAssistant represents the assistant's replies.
	RoleAssistant
)

// SupportRecord is a searchable reference to a single support page.
// The URL is the deduplication key; the title is the searchable surface
// (page bodies are large and noisy, titles are the stable search key).
// Records are immutable once stored except for re-embedding on a model
// upgrade, which rewrites every record.
type SupportRecord struct {
	Id         ID
	Title      string
	URL        string
	Vector     []float32         // Embedding of Title; dimension is fixed per store
	TitleHash  ID                // Content hash of Title, used to skip re-embedding unchanged records
	Metadata   map[string]string // Source metadata from the scraper (e.g. "category", "lang")
	Seq        uint64            // Monotonic insert sequence, breaks score ties (newest first)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// QueryMatch pairs a stored record with its similarity score for a query.
// Matches are derived per retrieval call and never persisted.
type QueryMatch struct {
	Record *SupportRecord
	Score  float32
}

// Turn is a single message in a conversation, ordered and append-only
// within a session.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}
