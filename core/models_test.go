package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "https://network.mobile.example.com/guide/sim-unlock/",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "multibyte content",
			content: "SIMロック解除方法",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("https://example.com/a")
	id2 := IDFromContent("https://example.com/b")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}
