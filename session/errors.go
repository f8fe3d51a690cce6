package session

import "errors"

var (
	// ErrEngineRequired is returned when a conversation engine is not provided.
	ErrEngineRequired = errors.New("conversation engine required")
)
