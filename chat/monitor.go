package chat

import (
	"github.com/kotaelabs/kotae/ai"
	"github.com/kotaelabs/kotae/core"
)

// State identifies where the engine is within one turn. Every turn starts
// and ends in StateIdle.
type State int

const (
	StateIdle State = iota
	StateClassifying
	StateSearching
	StateResponding
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClassifying:
		return "classifying"
	case StateSearching:
		return "searching"
	case StateResponding:
		return "responding"
	default:
		return "unknown"
	}
}

// TurnMonitor provides hooks to observe the engine as it processes a turn.
// Implement this interface to track state transitions and intermediate results.
type TurnMonitor interface {
	Start(message string)
	StateChanged(from, to State)
	AfterClassification(intent ai.Intent, fromKeywords bool)
	AfterRetrieval(matches []*core.QueryMatch)
	Finish(reply string)
}

// noopTurnMonitor is a no-op implementation of TurnMonitor
type noopTurnMonitor struct{}

var _ TurnMonitor = (*noopTurnMonitor)(nil)

func (n *noopTurnMonitor) Start(_ string)                          {}
func (n *noopTurnMonitor) StateChanged(_, _ State)                 {}
func (n *noopTurnMonitor) AfterClassification(_ ai.Intent, _ bool) {}
func (n *noopTurnMonitor) AfterRetrieval(_ []*core.QueryMatch)     {}
func (n *noopTurnMonitor) Finish(_ string)                         {}
