package chat

import (
	"time"

	"github.com/kotaelabs/kotae/core"
)

// DefaultMaxTurns bounds conversation history. Once full, the oldest turn
// is dropped for each new one (FIFO).
const DefaultMaxTurns = 20

// History holds the turns of one conversation, oldest first, bounded to a
// fixed number of turns. The zero value is not usable; use NewHistory.
type History struct {
	turns    []core.Turn
	maxTurns int
}

// NewHistory creates an empty history bounded to maxTurns.
// Non-positive maxTurns falls back to DefaultMaxTurns.
func NewHistory(maxTurns int) *History {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &History{
		turns:    make([]core.Turn, 0, maxTurns),
		maxTurns: maxTurns,
	}
}

// Append adds a turn, evicting the oldest when the bound is reached.
func (h *History) Append(role core.Role, content string) {
	turn := core.Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if len(h.turns) >= h.maxTurns {
		copy(h.turns, h.turns[1:])
		h.turns[len(h.turns)-1] = turn
		return
	}
	h.turns = append(h.turns, turn)
}

// Len returns the number of stored turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Turns returns a copy of all stored turns, oldest first.
func (h *History) Turns() []core.Turn {
	out := make([]core.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Recent returns a copy of the last n turns, oldest first.
// If fewer than n turns are stored, all of them are returned.
func (h *History) Recent(n int) []core.Turn {
	if n <= 0 {
		return []core.Turn{}
	}
	start := len(h.turns) - n
	if start < 0 {
		start = 0
	}
	out := make([]core.Turn, len(h.turns)-start)
	copy(out, h.turns[start:])
	return out
}

// Clear discards all stored turns.
func (h *History) Clear() {
	h.turns = h.turns[:0]
}
