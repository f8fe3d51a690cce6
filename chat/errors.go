package chat

import "errors"

var (
	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrCompleterRequired is returned when a completer is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrClassifierRequired is returned when an intent classifier is not provided.
	ErrClassifierRequired = errors.New("intent classifier required")

	// ErrSessionRequired is returned when a nil session is passed to the engine.
	ErrSessionRequired = errors.New("session required")

	// ErrEmptyMessage is returned when the user message is blank.
	ErrEmptyMessage = errors.New("message is empty")
)
