package models

import "errors"

// Business errors returned by the session services, interval recorder and
// aggregation engine. All of them are recoverable by the caller: a rejected
// report is dropped for that tick only, a rejected lifecycle command is
// surfaced to the agent as-is.
var (
	// ErrConflictingSession means the user already owns an Active or Paused session.
	ErrConflictingSession = errors.New("user already has an open session")

	// ErrInvalidTransition means the requested lifecycle change is not allowed
	// from the session's current state (e.g. resume while Active, anything after Ended).
	ErrInvalidTransition = errors.New("invalid session state transition")

	// ErrSessionNotActive means an interval was reported against a session
	// that is Paused or Ended.
	ErrSessionNotActive = errors.New("session is not active")

	// ErrInvalidInterval means the reported interval has a non-positive or
	// out-of-bounds duration.
	ErrInvalidInterval = errors.New("invalid interval duration")

	// ErrOverlappingInterval means the reported interval starts before the
	// previous interval of the same session ended.
	ErrOverlappingInterval = errors.New("interval overlaps previous interval")

	// ErrInvalidRange means an aggregation was requested over a malformed
	// time range (end before start).
	ErrInvalidRange = errors.New("invalid aggregation range")
)
