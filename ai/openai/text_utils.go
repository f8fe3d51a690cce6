package openai

import "github.com/kotaelabs/kotae/ai"

// apiToken returns the configured API key, or a placeholder accepted by
// local OpenAI-compatible services that don't check authentication.
func apiToken(config *ai.Config) string {
	if config.APIKey != "" {
		return config.APIKey
	}
	return "none"
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
