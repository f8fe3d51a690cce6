// Package session manages the lifecycle of conversation sessions.
//
// The Orchestrator type routes each incoming message to its session,
// creating sessions lazily and generating an ID when the caller supplies
// none. Turns within one session run strictly one at a time; separate
// sessions never block each other. Ending a session discards all of its
// in-memory state.
package session
