package chat

import (
	"fmt"
	"testing"

	"github.com/kotaelabs/kotae/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AppendAndRecent(t *testing.T) {
	h := NewHistory(10)

	h.Append(core.RoleUser, "質問1")
	h.Append(core.RoleAssistant, "回答1")
	h.Append(core.RoleUser, "質問2")

	assert.Equal(t, 3, h.Len())

	recent := h.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "回答1", recent[0].Content)
	assert.Equal(t, "質問2", recent[1].Content)

	assert.Empty(t, h.Recent(0))
	assert.Len(t, h.Recent(100), 3)
}

func TestHistory_FIFOBound(t *testing.T) {
	const maxTurns = 6
	h := NewHistory(maxTurns)

	for i := 0; i < maxTurns+5; i++ {
		h.Append(core.RoleUser, fmt.Sprintf("msg-%d", i))
	}

	assert.Equal(t, maxTurns, h.Len())

	turns := h.Turns()
	assert.Equal(t, "msg-5", turns[0].Content, "oldest surviving turn")
	assert.Equal(t, "msg-10", turns[maxTurns-1].Content, "newest turn")
}

func TestHistory_TurnsReturnsCopy(t *testing.T) {
	h := NewHistory(4)
	h.Append(core.RoleUser, "original")

	turns := h.Turns()
	turns[0].Content = "mutated"

	assert.Equal(t, "original", h.Turns()[0].Content)
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(4)
	h.Append(core.RoleUser, "a")
	h.Clear()

	assert.Zero(t, h.Len())
}

func TestNewHistory_DefaultBound(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < DefaultMaxTurns+3; i++ {
		h.Append(core.RoleUser, "m")
	}
	assert.Equal(t, DefaultMaxTurns, h.Len())
}
