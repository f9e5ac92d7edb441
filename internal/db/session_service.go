package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aidosbek/staffwatch/internal/models"
	"github.com/aidosbek/staffwatch/internal/report"
)

// StartSession creates a new Active tracking session for a user. The
// one-open-session-per-user rule is enforced by the partial unique index on
// the sessions table, so two concurrent starts cannot both succeed: the
// loser gets ErrConflictingSession.
func StartSession(ctx context.Context, userID, companyID string, now time.Time) (*models.Session, error) {
	if now.IsZero() {
		now = time.Now()
	}

	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CompanyID: companyID,
		Status:    models.StatusActive,
		StartedAt: now,
	}

	if err := DB.WithContext(ctx).Create(&session).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrConflictingSession
		}
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &session, nil
}

// GetSessionByToken retrieves a session by its agent-facing token.
func GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := DB.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %q not found", token)
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return &session, nil
}

// GetOpenSession returns the user's Active or Paused session, if any.
// No open session is not an error.
func GetOpenSession(ctx context.Context, userID string) (*models.Session, error) {
	var session models.Session
	err := DB.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, models.StatusEnded).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading open session: %w", err)
	}
	return &session, nil
}

// PauseSession moves an Active session to Paused.
func PauseSession(ctx context.Context, token string) (*models.Session, error) {
	return transition(ctx, token, models.StatusPaused)
}

// ResumeSession moves a Paused session back to Active.
func ResumeSession(ctx context.Context, token string) (*models.Session, error) {
	return transition(ctx, token, models.StatusActive)
}

// transition flips a session into the target open state with a conditional
// update, so a concurrent lifecycle command cannot make it skip a state.
// The required source state comes from the models transition table, the
// same one the Session methods enforce.
func transition(ctx context.Context, token, to string) (*models.Session, error) {
	from, ok := models.OpenTransitions[to]
	if !ok {
		return nil, models.ErrInvalidTransition
	}

	session, err := GetSessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	res := DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND status = ?", session.ID, from).
		Update("status", to)
	if res.Error != nil {
		return nil, fmt.Errorf("updating session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrInvalidTransition
	}

	session.Status = to
	return session, nil
}

// EndSession terminates a session from Active or Paused, computes the
// session's own aggregation summary and freezes it on the row. A second
// call fails with ErrInvalidTransition.
//
// The status flip happens before the summary reduction, inside one
// transaction: once the snapshot is taken no further interval can be
// admitted, so the frozen summary covers exactly the intervals the session
// ever accepted.
func EndSession(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	if now.IsZero() {
		now = time.Now()
	}

	var ended models.Session
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", token).First(&ended).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("session %q not found", token)
			}
			return fmt.Errorf("loading session: %w", err)
		}
		if err := ended.End(now); err != nil {
			return err
		}

		res := tx.Model(&models.Session{}).
			Where("id = ? AND status <> ?", ended.ID, models.StatusEnded).
			Updates(map[string]interface{}{
				"status":   models.StatusEnded,
				"ended_at": ended.EndedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("ending session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost a race with another end command.
			return models.ErrInvalidTransition
		}

		summary, err := report.SessionSummary(ctx, tx, ended.ID)
		if err != nil {
			return fmt.Errorf("computing session summary: %w", err)
		}
		raw, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("encoding session summary: %w", err)
		}

		if err := tx.Model(&models.Session{}).
			Where("id = ?", ended.ID).
			Update("summary", string(raw)).Error; err != nil {
			return fmt.Errorf("freezing session summary: %w", err)
		}

		ended.Summary = string(raw)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ended, nil
}

// isUniqueViolation reports whether err is a uniqueness constraint failure
// from the sqlite driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
