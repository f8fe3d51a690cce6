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

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/kotaelabs/kotae/chat"
)

// TurnResult is the outcome of one conversation turn. SessionID echoes the
// caller's session, or carries the generated one when the caller had none.
type TurnResult struct {
	SessionID string
	Reply     string
}

// sessionEntry pairs a session with the mutex that serializes its turns.
type sessionEntry struct {
	mu   sync.Mutex
	sess *chat.Session
}

// Orchestrator manages conversation sessions. Sessions are created lazily
// on first use and live in memory until ended. Turns within one session are
// serialized; turns across sessions run concurrently.
type Orchestrator struct {
	engine   *chat.Engine
	maxTurns int
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithMaxTurns bounds each session's history.
// Default is chat.DefaultMaxTurns.
func WithMaxTurns(maxTurns int) Option {
	return func(o *Orchestrator) error {
		o.maxTurns = maxTurns
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates an orchestrator over the given engine.
func NewOrchestrator(engine *chat.Engine, opts ...Option) (*Orchestrator, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}

	o := &Orchestrator{
		engine:   engine,
		maxTurns: chat.DefaultMaxTurns,
		logger:   slog.Default().With("component", "orchestrator"),
		sessions: make(map[string]*sessionEntry),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Ask processes one user message in the given session and returns the
// reply. An empty sessionID starts a new session with a generated ID;
// the ID is returned in the result so the caller can continue the
// conversation. Concurrent turns on the same session are serialized in
// arrival order.
func (o *Orchestrator) Ask(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
		o.logger.Debug("starting new session", "sessionID", sessionID)
	}

	entry := o.entryFor(sessionID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	reply, err := o.engine.Respond(ctx, entry.sess, message)
	if err != nil {
		return nil, err
	}

	return &TurnResult{SessionID: sessionID, Reply: reply}, nil
}

// entryFor returns the session entry, creating it on first use.
func (o *Orchestrator) entryFor(sessionID string) *sessionEntry {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.sessions[sessionID]
	if !ok {
		entry = &sessionEntry{sess: chat.NewSession(sessionID, o.maxTurns)}
		o.sessions[sessionID] = entry
	}
	return entry
}

// Reset discards the session's history and retrieval context but keeps the
// session alive. Returns false when the session does not exist.
func (o *Orchestrator) Reset(sessionID string) bool {
	o.mu.Lock()
	entry, ok := o.sessions[sessionID]
	o.mu.Unlock()
	if !ok {
		return false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.sess.Reset()
	o.logger.Debug("session reset", "sessionID", sessionID)
	return true
}

// End removes the session entirely, discarding its in-memory state.
// Returns false when the session does not exist.
func (o *Orchestrator) End(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.sessions[sessionID]; !ok {
		return false
	}
	delete(o.sessions, sessionID)
	o.logger.Debug("session ended", "sessionID", sessionID)
	return true
}

// SessionCount returns the number of live sessions.
func (o *Orchestrator) SessionCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sessions)
}

// HistoryLen returns the number of stored turns for a session, or 0 when
// the session does not exist. Intended for observability and tests.
func (o *Orchestrator) HistoryLen(sessionID string) int {
	o.mu.Lock()
	entry, ok := o.sessions[sessionID]
	o.mu.Unlock()
	if !ok {
		return 0
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.sess.History.Len()
}
