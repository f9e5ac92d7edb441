// Package report is the aggregation engine: stateless, read-only reductions
// over stored activity intervals. All report shapes share one rule set:
// idle intervals never count toward active sums, active intervals never
// count toward idle sums, and every date or hour computation applies the
// injected reporting zone rather than the host's local zone.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/aidosbek/staffwatch/internal/models"
)

// Engine runs aggregation queries against the interval store. It never
// mutates stored data and is safe to use concurrently with ongoing interval
// writes; a request sees the store as of its own start.
type Engine struct {
	db  *gorm.DB
	loc *time.Location
}

// NewEngine builds an Engine aggregating in the given reporting zone.
func NewEngine(db *gorm.DB, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{db: db, loc: loc}
}

// AttendanceRecord is one (date, user) attendance row. Dates and hours are
// in the reporting zone; durations are seconds.
type AttendanceRecord struct {
	Date          string    `json:"date"`
	UserID        string    `json:"user_id"`
	CompanyID     string    `json:"company_id"`
	ClockIn       time.Time `json:"clock_in"`
	ClockOut      time.Time `json:"clock_out"`
	ActiveSeconds int64     `json:"active_seconds"`
	IdleSeconds   int64     `json:"idle_seconds"`
	HoursActive   []int     `json:"hours_active"`
}

// UsageRow is one entry of the URL/application breakdown. Label is the
// derived URL when present, otherwise the application name. Visits counts
// recorded intervals, one per observation.
type UsageRow struct {
	Label   string `json:"label"`
	Seconds int64  `json:"seconds"`
	Visits  int64  `json:"visits"`
}

// DashboardStats returns the total active seconds for a company over the
// range. Idle intervals are excluded; zero matching intervals yield 0.
func (e *Engine) DashboardStats(ctx context.Context, companyID string, rng Range) (int64, error) {
	if err := rng.Validate(); err != nil {
		return 0, err
	}

	var total int64
	err := e.db.WithContext(ctx).Model(&models.ActivityInterval{}).
		Select("COALESCE(SUM(duration_seconds), 0)").
		Where("company_id = ? AND idle = ? AND started_at >= ? AND started_at <= ?",
			companyID, false, rng.Start, rng.End).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("summing active seconds: %w", err)
	}
	return total, nil
}

// Attendance reduces a company's intervals in range into one record per
// (reporting-zone date, user) bucket, ordered by date descending then user
// ascending. userID narrows the report to one user when non-empty. The
// reduction streams over a cursor ordered by start time, so memory is
// bounded by the number of buckets, not intervals.
func (e *Engine) Attendance(ctx context.Context, companyID, userID string, rng Range) ([]AttendanceRecord, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	q := e.db.WithContext(ctx).Model(&models.ActivityInterval{}).
		Select("user_id, started_at, ended_at, duration_seconds, idle").
		Where("company_id = ? AND started_at >= ? AND started_at <= ?",
			companyID, rng.Start, rng.End).
		Order("started_at ASC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	rows, err := q.Rows()
	if err != nil {
		return nil, fmt.Errorf("querying intervals: %w", err)
	}
	defer rows.Close()

	type bucketKey struct {
		date string
		user string
	}
	buckets := make(map[bucketKey]*AttendanceRecord)
	hours := make(map[bucketKey]map[int]bool)

	for rows.Next() {
		var (
			user       string
			start, end time.Time
			seconds    int64
			idle       bool
		)
		if err := rows.Scan(&user, &start, &end, &seconds, &idle); err != nil {
			return nil, fmt.Errorf("scanning interval: %w", err)
		}

		local := start.In(e.loc)
		key := bucketKey{date: local.Format("2006-01-02"), user: user}

		rec, ok := buckets[key]
		if !ok {
			rec = &AttendanceRecord{
				Date:      key.date,
				UserID:    user,
				CompanyID: companyID,
				ClockIn:   start,
			}
			buckets[key] = rec
			hours[key] = make(map[int]bool)
		}

		// Rows arrive ordered by start time, so the latest-start interval's
		// end is the bucket's clock-out even under duplicate timestamps.
		rec.ClockOut = end
		if idle {
			rec.IdleSeconds += seconds
		} else {
			rec.ActiveSeconds += seconds
			hours[key][local.Hour()] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading intervals: %w", err)
	}

	records := make([]AttendanceRecord, 0, len(buckets))
	for key, rec := range buckets {
		for h := range hours[key] {
			rec.HoursActive = append(rec.HoursActive, h)
		}
		sort.Ints(rec.HoursActive)
		if rec.HoursActive == nil {
			rec.HoursActive = []int{}
		}
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].UserID < records[j].UserID
	})

	return records, nil
}

// UsageSummary groups a user's active intervals in range by derived URL,
// falling back to application name, and returns totals ordered by seconds
// descending. Grouping happens in the store so only one row per label is
// materialized.
func (e *Engine) UsageSummary(ctx context.Context, userID string, rng Range) ([]UsageRow, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	var usage []UsageRow
	err := e.db.WithContext(ctx).Model(&models.ActivityInterval{}).
		Select(`CASE
			WHEN url <> '' THEN url
			WHEN app_name <> '' THEN app_name
			ELSE 'unknown'
		END AS label,
		SUM(duration_seconds) AS seconds,
		COUNT(*) AS visits`).
		Where("user_id = ? AND idle = ? AND started_at >= ? AND started_at <= ?",
			userID, false, rng.Start, rng.End).
		Group("label").
		Order("seconds DESC").
		Scan(&usage).Error
	if err != nil {
		return nil, fmt.Errorf("grouping usage: %w", err)
	}
	return usage, nil
}

// Summary is the frozen per-session snapshot computed at the Ended
// transition.
type Summary struct {
	Intervals     int64      `json:"intervals"`
	ActiveSeconds int64      `json:"active_seconds"`
	IdleSeconds   int64      `json:"idle_seconds"`
	FirstActivity *time.Time `json:"first_activity,omitempty"`
	LastActivity  *time.Time `json:"last_activity,omitempty"`
}

// SessionSummary reduces one session's own intervals. A session with no
// recorded intervals yields a zero summary, not an error.
func SessionSummary(ctx context.Context, db *gorm.DB, sessionID uint) (Summary, error) {
	rows, err := db.WithContext(ctx).Model(&models.ActivityInterval{}).
		Select("started_at, ended_at, duration_seconds, idle").
		Where("session_id = ?", sessionID).
		Order("started_at ASC").
		Rows()
	if err != nil {
		return Summary{}, fmt.Errorf("querying session intervals: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var (
			start, end time.Time
			seconds    int64
			idle       bool
		)
		if err := rows.Scan(&start, &end, &seconds, &idle); err != nil {
			return Summary{}, fmt.Errorf("scanning interval: %w", err)
		}

		if summary.FirstActivity == nil {
			first := start
			summary.FirstActivity = &first
		}
		last := end
		summary.LastActivity = &last

		summary.Intervals++
		if idle {
			summary.IdleSeconds += seconds
		} else {
			summary.ActiveSeconds += seconds
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("reading session intervals: %w", err)
	}

	return summary, nil
}
