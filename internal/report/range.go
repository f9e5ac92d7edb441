package report

import (
	"fmt"
	"time"

	"github.com/aidosbek/staffwatch/internal/models"
)

// Range is a closed time range. Intervals are selected by their start time.
type Range struct {
	Start time.Time
	End   time.Time
}

// Validate rejects inverted ranges.
func (r Range) Validate() error {
	if r.End.Before(r.Start) {
		return models.ErrInvalidRange
	}
	return nil
}

// DayRange builds a Range spanning whole calendar days in the reporting
// zone, from the start of `from` to the last instant of `to`. Dates use the
// YYYY-MM-DD format.
func DayRange(from, to string, loc *time.Location) (Range, error) {
	start, err := time.ParseInLocation("2006-01-02", from, loc)
	if err != nil {
		return Range{}, fmt.Errorf("parsing from date: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", to, loc)
	if err != nil {
		return Range{}, fmt.Errorf("parsing to date: %w", err)
	}

	r := Range{
		Start: start,
		End:   end.Add(24*time.Hour - time.Nanosecond),
	}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Today returns the single-day range containing now in the reporting zone.
func Today(now time.Time, loc *time.Location) Range {
	y, m, d := now.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return Range{Start: start, End: start.Add(24*time.Hour - time.Nanosecond)}
}
