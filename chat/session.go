package chat

import "github.com/kotaelabs/kotae/core"

// Session holds the conversational state for one user: the bounded turn
// history and the retrieval context of the last answered question, which
// followup questions re-use.
//
// A Session is not safe for concurrent use; callers must serialize turns
// per session (the session package's Orchestrator does this).
type Session struct {
	ID      string
	History *History

	lastMatches []*core.QueryMatch
}

// NewSession creates a session with an empty history bounded to maxTurns.
// Non-positive maxTurns falls back to DefaultMaxTurns.
func NewSession(id string, maxTurns int) *Session {
	return &Session{
		ID:      id,
		History: NewHistory(maxTurns),
	}
}

// LastMatches returns a copy of the retrieval context from the most recent
// search turn. Empty when no search has happened yet.
func (s *Session) LastMatches() []*core.QueryMatch {
	out := make([]*core.QueryMatch, len(s.lastMatches))
	copy(out, s.lastMatches)
	return out
}

// Reset discards the history and retrieval context, keeping the ID.
func (s *Session) Reset() {
	s.History.Clear()
	s.lastMatches = nil
}
