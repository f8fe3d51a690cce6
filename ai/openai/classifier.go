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
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kotaelabs/kotae/ai"
	"github.com/kotaelabs/kotae/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// classifierHistoryTurns is how many trailing turns are shown to the model
// so it can distinguish followups from fresh questions.
const classifierHistoryTurns = 3

// IntentClassifier implements ai.IntentClassifier using OpenAI-compatible chat APIs.
type IntentClassifier struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// classification is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type classification struct {
	Intent string `json:"intent"`
}

// newIntentClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newIntentClassifier(config *ai.Config) (*IntentClassifier, error) {
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

	return &IntentClassifier{
		client:  client,
		timeout: config.Timeout,
		logger:  slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewIntentClassifier creates a new intent classifier using the provided configuration.
//
// Returns ai.IntentClassifier interface to enforce abstraction.
func NewIntentClassifier(config *ai.Config) (ai.IntentClassifier, error) {
	return newIntentClassifier(config)
}

// ClassifyIntent categorizes a user message using an LLM in JSON mode.
// Malformed or schema-violating responses are retried up to 3 times before
// the last parse error is returned.
func (c *IntentClassifier) ClassifyIntent(ctx context.Context, message string, history []core.Turn) (ai.Intent, error) {
	if strings.TrimSpace(message) == "" {
		return "", ai.ErrEmptyInput
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildClassificationPrompt())},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(formatClassifierInput(message, history))},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Try up to 3 times in case of malformed JSON
	var result classification
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			c.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return "", ai.NewProviderError("classify", err)
		}

		if len(response.Choices) < 1 {
			c.logger.Warn("no choices returned from model")
			return "", ai.NewProviderError("classify", errNoChoices)
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			c.logger.Warn("error parsing classifier response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		intent := ai.Intent(strings.ToLower(strings.TrimSpace(result.Intent)))
		if !intent.Valid() {
			lastErr = fmt.Errorf("model returned unknown intent %q", result.Intent)
			c.logger.Warn("classifier returned unknown intent",
				"attempt", attempt+1,
				"intent", result.Intent)
			continue
		}

		return intent, nil
	}

	c.logger.Error("failed to parse classifier response after retries", "err", lastErr)
	return "", ai.NewProviderError("classify", lastErr)
}

// formatClassifierInput renders the latest message plus the trailing turns
// the model needs for followup detection.
func formatClassifierInput(message string, history []core.Turn) string {
	if len(history) == 0 {
		return message
	}

	recent := history
	if len(recent) > classifierHistoryTurns {
		recent = recent[len(recent)-classifierHistoryTurns:]
	}

	var b strings.Builder
	b.WriteString("[Previous Conversation]\n")
	for _, turn := range recent {
		role := "User"
		if turn.Role == core.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, turn.Content)
	}
	b.WriteString("\n[Latest Message]\n")
	b.WriteString(message)
	return b.String()
}
