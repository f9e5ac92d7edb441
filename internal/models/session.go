package models

import (
	"time"
)

// Session status values. A session starts Active, may bounce between
// Active and Paused, and terminates in Ended exactly once.
const (
	StatusActive = "active"
	StatusPaused = "paused"
	StatusEnded  = "ended"
)

// Session represents one continuous (possibly paused) period of agent
// tracking for a user. Ended sessions are immutable.
type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Token     string     `gorm:"uniqueIndex;not null" json:"token"`
	UserID    string     `gorm:"index;not null" json:"user_id"`
	CompanyID string     `gorm:"index;not null" json:"company_id"`
	Status    string     `gorm:"not null;default:active" json:"status"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`

	// Summary is a frozen JSON snapshot of the session's own aggregation,
	// written once at the Ended transition.
	Summary string `json:"summary"`
}

// OpenTransitions maps each open target state to the only state it may be
// reached from. It is the single definition of the pause/resume graph; the
// Session methods and the storage layer's conditional updates both read it.
var OpenTransitions = map[string]string{
	StatusPaused: StatusActive,
	StatusActive: StatusPaused,
}

// Open reports whether the session can still be mutated (Active or Paused).
func (s *Session) Open() bool {
	return s.Status != StatusEnded
}

// Pause moves the session from Active to Paused.
func (s *Session) Pause() error {
	return s.shift(StatusPaused)
}

// Resume moves the session from Paused back to Active.
func (s *Session) Resume() error {
	return s.shift(StatusActive)
}

func (s *Session) shift(to string) error {
	if s.Status != OpenTransitions[to] {
		return ErrInvalidTransition
	}
	s.Status = to
	return nil
}

// End terminates the session. It is valid from Active or Paused and fails
// from Ended; the end time is set exactly once and never before StartedAt.
func (s *Session) End(now time.Time) error {
	if s.Status == StatusEnded {
		return ErrInvalidTransition
	}
	if now.Before(s.StartedAt) {
		now = s.StartedAt
	}
	s.Status = StatusEnded
	s.EndedAt = &now
	return nil
}
