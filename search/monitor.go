package search

import "github.com/kotaelabs/kotae/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results during retrieval.
type RetrievalMonitor interface {
	Start(query string)
	AfterEmbedding(vector []float32)
	Finish(matches []*core.QueryMatch)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                  {}
func (n *noopMonitor) AfterEmbedding(_ []float32)      {}
func (n *noopMonitor) Finish(_ []*core.QueryMatch)     {}
