package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "https://api.openai.com/v1", cfg.ChatHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
		assert.Equal(t, "https://api.openai.com/v1", cfg.ChatHost)
		assert.Equal(t, 3, cfg.MaxRetries)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.ChatHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithChatHost("http://chat:9090/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://chat:9090/v1", cfg.ChatHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingModel("embeddinggemma"),
			WithChatModel("qwen2.5:3b"),
		)

		assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
		assert.Equal(t, "qwen2.5:3b", cfg.ChatModel)
	})

	t.Run("with retry settings", func(t *testing.T) {
		cfg := NewConfig(
			WithMaxRetries(5),
			WithRetryDelay(500*time.Millisecond),
			WithTimeout(10*time.Second),
		)

		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
	})

	t.Run("with api key", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey("sk-test"))

		assert.Equal(t, "sk-test", cfg.APIKey)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"keeps existing v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"leaves empty host alone", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.host, ChatHost: tt.host}
			cfg.Normalize()

			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, tt.want, cfg.ChatHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing chat host", func(c *Config) { c.ChatHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing chat model", func(c *Config) { c.ChatModel = "" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"zero retry delay", func(c *Config) { c.RetryDelay = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("validate normalizes hosts", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}

func TestIntent(t *testing.T) {
	t.Run("requires search", func(t *testing.T) {
		assert.True(t, IntentSearch.RequiresSearch())
		assert.True(t, IntentFollowup.RequiresSearch())
		assert.False(t, IntentGreeting.RequiresSearch())
		assert.False(t, IntentFarewell.RequiresSearch())
		assert.False(t, IntentSmallTalk.RequiresSearch())
		assert.False(t, IntentOffTopic.RequiresSearch())
	})

	t.Run("valid", func(t *testing.T) {
		for _, intent := range Intents {
			assert.True(t, intent.Valid(), string(intent))
		}
		assert.False(t, Intent("unknown").Valid())
		assert.False(t, Intent("").Valid())
	})
}
