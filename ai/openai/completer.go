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

package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kotaelabs/kotae/ai"
	"github.com/kotaelabs/kotae/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generation parameters for reply composition. Deterministic output and a
// hard token cap keep support answers short and reproducible.
const (
	replyTemperature = 0.0
	replyMaxTokens   = 400
)

// errNoChoices is returned when the model response contains no completion.
var errNoChoices = errors.New("model returned no choices")

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(apiToken(config)),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:  client,
		timeout: config.Timeout,
		logger:  slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete generates an assistant reply from the system prompt, the prior
// turns, and the latest user message.
func (c *Completer) Complete(ctx context.Context, systemPrompt string, history []core.Turn, userMessage string) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", ai.ErrEmptyInput
	}
	if systemPrompt == "" {
		systemPrompt = answerSystemPrompt
	}

	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
	})
	for _, turn := range history {
		content = append(content, llms.MessageContent{
			Role:  chatRole(turn.Role),
			Parts: []llms.ContentPart{llms.TextPart(turn.Content)},
		})
	}
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(userMessage)},
	})

	c.logger.Debug("generating reply", "historyTurns", len(history), "messageLength", len(userMessage))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.client.GenerateContent(ctx, content,
		llms.WithTemperature(replyTemperature),
		llms.WithMaxTokens(replyMaxTokens))
	if err != nil {
		c.logger.Error("failed to generate reply", "err", err)
		return "", ai.NewProviderError("complete", err)
	}

	if len(response.Choices) < 1 {
		c.logger.Warn("no choices returned from model")
		return "", ai.NewProviderError("complete", errNoChoices)
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// chatRole maps a conversation role onto the langchaingo message type.
func chatRole(role core.Role) llms.ChatMessageType {
	if role == core.RoleAssistant {
		return llms.ChatMessageTypeAI
	}
	return llms.ChatMessageTypeHuman
}
