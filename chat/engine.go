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

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kotaelabs/kotae/ai"
	"github.com/kotaelabs/kotae/core"
)

// promptHistoryTurns is how many trailing turns are passed to the model
// when classifying intent and composing a reply.
const promptHistoryTurns = 3

// Retriever finds support records for a text query.
// search.Retriever satisfies this.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]*core.QueryMatch, error)
}

// Engine answers one user message at a time. Conversational messages get
// canned template replies; questions get a knowledge-base retrieval and an
// LLM-composed answer with the matched references appended. A turn always
// yields a reply: provider failures degrade to templates instead of erroring.
type Engine struct {
	retriever  Retriever
	completer  ai.Completer
	classifier ai.IntentClassifier
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithRetry sets the retry policy for classification and completion calls.
// Defaults are 3 attempts with a 1s base delay.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(e *Engine) error {
		if maxRetries < 1 {
			maxRetries = 1
		}
		if baseDelay <= 0 {
			baseDelay = time.Second
		}
		e.maxRetries = maxRetries
		e.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a conversation engine.
func NewEngine(retriever Retriever, completer ai.Completer, classifier ai.IntentClassifier, opts ...Option) (*Engine, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if classifier == nil {
		return nil, ErrClassifierRequired
	}

	e := &Engine{
		retriever:  retriever,
		completer:  completer,
		classifier: classifier,
		maxRetries: 3,
		retryDelay: time.Second,
		logger:     slog.Default().With("component", "engine"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Respond processes one user message in the given session and returns the
// assistant reply. Both the message and the reply are appended to the
// session history.
func (e *Engine) Respond(ctx context.Context, sess *Session, message string) (string, error) {
	return e.RespondWithMonitor(ctx, sess, message, nil)
}

// RespondWithMonitor processes one user message with monitoring.
// The monitor receives state transitions and intermediate results.
func (e *Engine) RespondWithMonitor(ctx context.Context, sess *Session, message string, monitor TurnMonitor) (string, error) {
	if monitor == nil {
		monitor = &noopTurnMonitor{}
	}
	if sess == nil {
		return "", ErrSessionRequired
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	monitor.Start(message)
	state := StateIdle
	transition := func(to State) {
		monitor.StateChanged(state, to)
		state = to
	}

	transition(StateClassifying)
	intent, fromKeywords := e.classify(ctx, sess, message)
	monitor.AfterClassification(intent, fromKeywords)

	var reply string
	if intent.RequiresSearch() {
		transition(StateSearching)
		matches := e.retrieve(ctx, sess, message, intent)
		monitor.AfterRetrieval(matches)
		sess.lastMatches = matches

		transition(StateResponding)
		reply = e.compose(ctx, sess, message, matches)
	} else {
		transition(StateResponding)
		reply = templateReply(intent)
	}
	transition(StateIdle)

	sess.History.Append(core.RoleUser, message)
	sess.History.Append(core.RoleAssistant, reply)

	monitor.Finish(reply)
	return reply, nil
}

// classify determines the message intent: keyword fast-path first, then the
// LLM classifier. Classification failures degrade to a knowledge-base
// search, which is the safe default for a support desk.
func (e *Engine) classify(ctx context.Context, sess *Session, message string) (intent ai.Intent, fromKeywords bool) {
	if intent, ok := classifyByKeywords(message); ok {
		e.logger.Debug("keyword fast-path classification", "intent", intent)
		return intent, true
	}

	history := sess.History.Recent(promptHistoryTurns)
	var result ai.Intent
	err := ai.RetryWithBackoff(ctx, func() error {
		var classifyErr error
		result, classifyErr = e.classifier.ClassifyIntent(ctx, message, history)
		return classifyErr
	}, e.maxRetries, e.retryDelay)
	if err != nil {
		e.logger.Warn("intent classification failed, defaulting to search", "err", err)
		return ai.IntentSearch, false
	}

	return result, false
}

// retrieve fetches the knowledge-base context for the message. Followups
// re-use the previous turn's matches when available. Retrieval failures are
// logged and treated as an empty result so the turn still yields a reply.
func (e *Engine) retrieve(ctx context.Context, sess *Session, message string, intent ai.Intent) []*core.QueryMatch {
	if intent == ai.IntentFollowup && len(sess.lastMatches) > 0 {
		e.logger.Debug("followup question, re-using previous matches", "matches", len(sess.lastMatches))
		return sess.lastMatches
	}

	matches, err := e.retriever.Retrieve(ctx, message)
	if err != nil {
		e.logger.Error("retrieval failed, answering without references", "err", err)
		return nil
	}
	return matches
}

// compose builds the final reply: an LLM answer grounded in the matches,
// with the reference links appended. No matches asks the user to rephrase;
// a completion failure degrades to the system-error template.
func (e *Engine) compose(ctx context.Context, sess *Session, message string, matches []*core.QueryMatch) string {
	if len(matches) == 0 {
		return noMatchReply
	}

	history := sess.History.Recent(promptHistoryTurns)
	input := buildAnswerInput(message, matches)

	var answer string
	err := ai.RetryWithBackoff(ctx, func() error {
		var completeErr error
		answer, completeErr = e.completer.Complete(ctx, "", history, input)
		return completeErr
	}, e.maxRetries, e.retryDelay)
	if err != nil {
		e.logger.Error("reply generation failed, using degraded reply", "err", err)
		answer = degradedReply
	}

	return answer + formatReferences(matches)
}

// buildAnswerInput renders the user question together with the retrieved
// reference material the model must ground its answer in.
func buildAnswerInput(message string, matches []*core.QueryMatch) string {
	var b strings.Builder
	b.WriteString("[Context]\nUser Query: ")
	b.WriteString(message)
	b.WriteString("\n\n[Relevant Information]\n")
	for _, match := range matches {
		fmt.Fprintf(&b, "• %s (Similarity: %.2f)\n", match.Record.Title, match.Score)
	}
	return b.String()
}

// formatReferences renders the source links appended to search replies.
func formatReferences(matches []*core.QueryMatch) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(referencesHeader)
	b.WriteString("\n")
	for _, match := range matches {
		fmt.Fprintf(&b, "• %s: %s\n", match.Record.Title, match.Record.URL)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
