package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aidosbek/staffwatch/internal/models"
	"github.com/aidosbek/staffwatch/internal/parser"
)

// TickLimits bounds the accepted interval duration. Reports outside the
// bounds are rejected as invalid; a zero Max disables the cap.
type TickLimits struct {
	Min time.Duration
	Max time.Duration
}

// TickBounds guards against clock-skewed agents. Overridden from config at
// startup.
var TickBounds = TickLimits{Min: time.Second, Max: time.Hour}

// RecordInterval validates and persists one agent tick report against the
// session identified by token. The idle flag comes from the agent-side idle
// detector and is stored as-is. The interval is rejected when the session
// is not Active, the duration is non-positive or out of bounds, or the
// interval overlaps the session's previous one; a rejection drops that tick
// only and the agent keeps reporting.
//
// The session status is read inside the insert transaction: a session that
// a concurrent end command has already flipped to Ended cannot admit the
// interval, no matter how the two requests interleave.
func RecordInterval(ctx context.Context, token string, start, end time.Time, idle bool, appName, windowTitle string) (*models.ActivityInterval, error) {
	var interval models.ActivityInterval

	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.Where("token = ?", token).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("session %q not found", token)
			}
			return fmt.Errorf("loading session: %w", err)
		}
		if session.Status != models.StatusActive {
			return models.ErrSessionNotActive
		}

		if !end.After(start) {
			return models.ErrInvalidInterval
		}
		duration := end.Sub(start)
		if duration < TickBounds.Min {
			return models.ErrInvalidInterval
		}
		if TickBounds.Max > 0 && duration > TickBounds.Max {
			return models.ErrInvalidInterval
		}

		var prev models.ActivityInterval
		err := tx.Where("session_id = ?", session.ID).
			Order("started_at DESC").
			First(&prev).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("loading previous interval: %w", err)
		}
		if err == nil && start.Before(prev.EndedAt) {
			return models.ErrOverlappingInterval
		}

		interval = models.ActivityInterval{
			SessionID:   session.ID,
			UserID:      session.UserID,
			CompanyID:   session.CompanyID,
			StartedAt:   start,
			EndedAt:     end,
			Idle:        idle,
			AppName:     appName,
			WindowTitle: windowTitle,
			URL:         parser.DeriveURL(appName, windowTitle),
		}
		interval.DurationSeconds = int64(interval.Duration().Seconds())

		return tx.Create(&interval).Error
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("recording interval: %w", err)
	}

	return &interval, nil
}

// GetSessionIntervals returns a session's intervals ordered by start time.
func GetSessionIntervals(ctx context.Context, sessionID uint) ([]models.ActivityInterval, error) {
	var intervals []models.ActivityInterval
	err := DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("started_at ASC").
		Find(&intervals).Error
	if err != nil {
		return nil, fmt.Errorf("loading intervals: %w", err)
	}
	return intervals, nil
}

// isBusinessError reports whether err is one of the caller-recoverable
// rejections, as opposed to a storage fault.
func isBusinessError(err error) bool {
	return errors.Is(err, models.ErrSessionNotActive) ||
		errors.Is(err, models.ErrInvalidInterval) ||
		errors.Is(err, models.ErrOverlappingInterval) ||
		errors.Is(err, models.ErrInvalidTransition)
}
