package models

import (
	"time"
)

// ActivityInterval is the smallest recorded unit of activity: one agent
// tick, tagged idle or active. Intervals are append-only and never mutated
// after creation; gaps between them represent untracked time (e.g. while
// the session was paused).
type ActivityInterval struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID uint      `gorm:"index:idx_intervals_session_start;not null" json:"session_id"`
	UserID    string    `gorm:"not null" json:"user_id"`
	CompanyID string    `gorm:"index:idx_intervals_company_start;not null" json:"company_id"`
	StartedAt time.Time `gorm:"index:idx_intervals_session_start;index:idx_intervals_company_start;not null" json:"started_at"`
	EndedAt   time.Time `gorm:"not null" json:"ended_at"`

	// DurationSeconds is derived from StartedAt/EndedAt at creation so the
	// store can aggregate without date arithmetic.
	DurationSeconds int64 `gorm:"not null" json:"duration_seconds"`

	// Idle is supplied by the agent-side idle detector and trusted as-is.
	Idle bool `gorm:"not null" json:"idle"`

	AppName     string `json:"app_name"`
	WindowTitle string `json:"window_title"`
	URL         string `json:"url"`
}

// Duration returns the interval length.
func (i *ActivityInterval) Duration() time.Duration {
	return i.EndedAt.Sub(i.StartedAt)
}
