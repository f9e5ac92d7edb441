package report_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/aidosbek/staffwatch/internal/db"
	"github.com/aidosbek/staffwatch/internal/models"
	"github.com/aidosbek/staffwatch/internal/report"
)

func openTestDB(t *testing.T) {
	t.Helper()
	if err := db.Open(filepath.Join(t.TempDir(), "test.db"), false); err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(func() { db.Close() })
}

type tick struct {
	start time.Time
	end   time.Time
	idle  bool
	app   string
	title string
}

// seedSession starts a session, records the given ticks and ends it.
func seedSession(t *testing.T, userID string, ticks []tick) *models.Session {
	t.Helper()
	ctx := context.Background()

	session, err := db.StartSession(ctx, userID, "acme", ticks[0].start)
	if err != nil {
		t.Fatalf("StartSession(%s) = %v", userID, err)
	}
	last := ticks[0].start
	for _, tk := range ticks {
		if _, err := db.RecordInterval(ctx, session.Token, tk.start, tk.end, tk.idle, tk.app, tk.title); err != nil {
			t.Fatalf("RecordInterval(%s, %v) = %v", userID, tk.start, err)
		}
		last = tk.end
	}
	if _, err := db.EndSession(ctx, session.Token, last); err != nil {
		t.Fatalf("EndSession(%s) = %v", userID, err)
	}
	return session
}

func TestAttendance_SingleSessionDay(t *testing.T) {
	openTestDB(t)
	engine := report.NewEngine(db.DB, time.UTC)

	// One active hour, then fifteen idle minutes.
	nine := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	ten := nine.Add(time.Hour)
	seedSession(t, "u-1", []tick{
		{start: nine, end: ten, app: "Terminal"},
		{start: ten, end: ten.Add(15 * time.Minute), idle: true, app: "Terminal"},
	})

	rng, err := report.DayRange("2024-01-10", "2024-01-10", time.UTC)
	if err != nil {
		t.Fatalf("DayRange() = %v", err)
	}
	records, err := engine.Attendance(context.Background(), "acme", "", rng)
	if err != nil {
		t.Fatalf("Attendance() = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.Date != "2024-01-10" || rec.UserID != "u-1" {
		t.Errorf("bucket = (%s, %s), want (2024-01-10, u-1)", rec.Date, rec.UserID)
	}
	if !rec.ClockIn.Equal(nine) {
		t.Errorf("ClockIn = %v, want %v", rec.ClockIn, nine)
	}
	if !rec.ClockOut.Equal(ten.Add(15 * time.Minute)) {
		t.Errorf("ClockOut = %v, want %v", rec.ClockOut, ten.Add(15*time.Minute))
	}
	if rec.ActiveSeconds != 3600 {
		t.Errorf("ActiveSeconds = %d, want 3600", rec.ActiveSeconds)
	}
	if rec.IdleSeconds != 900 {
		t.Errorf("IdleSeconds = %d, want 900", rec.IdleSeconds)
	}
	if !reflect.DeepEqual(rec.HoursActive, []int{9}) {
		t.Errorf("HoursActive = %v, want [9]", rec.HoursActive)
	}
}

func TestAttendance_Ordering(t *testing.T) {
	openTestDB(t)
	engine := report.NewEngine(db.DB, time.UTC)

	day1 := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)
	seedSession(t, "u-b", []tick{{start: day1, end: day1.Add(time.Hour)}})
	seedSession(t, "u-a", []tick{{start: day1.Add(2 * time.Hour), end: day1.Add(3 * time.Hour)}})
	seedSession(t, "u-a", []tick{{start: day2, end: day2.Add(time.Hour)}})

	rng, _ := report.DayRange("2024-01-10", "2024-01-11", time.UTC)
	records, err := engine.Attendance(context.Background(), "acme", "", rng)
	if err != nil {
		t.Fatalf("Attendance() = %v", err)
	}

	var got [][2]string
	for _, rec := range records {
		got = append(got, [2]string{rec.Date, rec.UserID})
	}
	want := [][2]string{
		{"2024-01-11", "u-a"},
		{"2024-01-10", "u-a"},
		{"2024-01-10", "u-b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bucket order = %v, want %v", got, want)
	}
}

func TestAttendance_UserFilter(t *testing.T) {
	openTestDB(t)
	engine := report.NewEngine(db.DB, time.UTC)

	day := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	seedSession(t, "u-1", []tick{{start: day, end: day.Add(time.Hour)}})
	seedSession(t, "u-2", []tick{{start: day, end: day.Add(time.Hour)}})

	rng, _ := report.DayRange("2024-01-10", "2024-01-10", time.UTC)
	records, err := engine.Attendance(context.Background(), "acme", "u-2", rng)
	if err != nil {
		t.Fatalf("Attendance() = %v", err)
	}
	if len(records) != 1 || records[0].UserID != "u-2" {
		t.Errorf("filtered records = %+v, want exactly u-2", records)
	}
}

func TestAttendance_ReportingZoneBucketsDatesAndHours(t *testing.T) {
	openTestDB(t)

	// 22:30 UTC on Jan 1 is 03:30 on Jan 2 at UTC+5. Date bucketing and
	// hour extraction must both apply the reporting zone.
	zone := time.FixedZone("reporting", 5*3600)
	engine := report.NewEngine(db.DB, zone)

	start := time.Date(2024, 1, 1, 22, 30, 0, 0, time.UTC)
	seedSession(t, "u-1", []tick{{start: start, end: start.Add(30 * time.Minute)}})

	rng, err := report.DayRange("2024-01-02", "2024-01-02", zone)
	if err != nil {
		t.Fatalf("DayRange() = %v", err)
	}
	records, err := engine.Attendance(context.Background(), "acme", "", rng)
	if err != nil {
		t.Fatalf("Attendance() = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Date != "2024-01-02" {
		t.Errorf("Date = %s, want 2024-01-02", records[0].Date)
	}
	if !reflect.DeepEqual(records[0].HoursActive, []int{3}) {
		t.Errorf("HoursActive = %v, want [3]", records[0].HoursActive)
	}

	// The same day queried in UTC holds nothing.
	utcRng, _ := report.DayRange("2024-01-02", "2024-01-02", time.UTC)
	utcRecords, err := report.NewEngine(db.DB, time.UTC).Attendance(context.Background(), "acme", "", utcRng)
	if err != nil {
		t.Fatalf("Attendance() = %v", err)
	}
	if len(utcRecords) != 0 {
		t.Errorf("UTC engine found %d records on 2024-01-02, want 0", len(utcRecords))
	}
}

func TestDashboardStats_MatchesAttendanceTotals(t *testing.T) {
	openTestDB(t)
	engine := report.NewEngine(db.DB, time.UTC)

	day1 := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 11, 14, 0, 0, 0, time.UTC)
	seedSession(t, "u-1", []tick{
		{start: day1, end: day1.Add(time.Hour)},
		{start: day1.Add(time.Hour), end: day1.Add(time.Hour + 20*time.Minute), idle: true},
	})
	seedSession(t, "u-2", []tick{{start: day1.Add(time.Hour), end: day1.Add(90 * time.Minute)}})
	seedSession(t, "u-1", []tick{{start: day2, end: day2.Add(45 * time.Minute)}})

	rng, _ := report.DayRange("2024-01-10", "2024-01-11", time.UTC)
	ctx := context.Background()

	total, err := engine.DashboardStats(ctx, "acme", rng)
	if err != nil {
		t.Fatalf("DashboardStats() = %v", err)
	}

	records, err := engine.Attendance(ctx, "acme", "", rng)
	if err != nil {
		t.Fatalf("Attendance() = %v", err)
	}
	var sum int64
	for _, rec := range records {
		sum += rec.ActiveSeconds
	}

	if total != sum {
		t.Errorf("dashboard total %d != attendance sum %d", total, sum)
	}
	if want := int64(3600 + 1800 + 2700); total != want {
		t.Errorf("dashboard total = %d, want %d", total, want)
	}
}

func TestDashboardStats_Empty(t *testing.T) {
	openTestDB(t)
	engine := report.NewEngine(db.DB, time.UTC)

	rng, _ := report.DayRange("2024-01-10", "2024-01-10", time.UTC)
	total, err := engine.DashboardStats(context.Background(), "nobody", rng)
	if err != nil {
		t.Fatalf("DashboardStats() = %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0 for empty store", total)
	}
}

func TestAggregation_InvalidRange(t *testing.T) {
	openTestDB(t)
	engine := report.NewEngine(db.DB, time.UTC)
	ctx := context.Background()

	inverted := report.Range{
		Start: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if _, err := engine.DashboardStats(ctx, "acme", inverted); !errors.Is(err, models.ErrInvalidRange) {
		t.Errorf("DashboardStats() = %v, want ErrInvalidRange", err)
	}
	if _, err := engine.Attendance(ctx, "acme", "", inverted); !errors.Is(err, models.ErrInvalidRange) {
		t.Errorf("Attendance() = %v, want ErrInvalidRange", err)
	}
	if _, err := engine.UsageSummary(ctx, "u-1", inverted); !errors.Is(err, models.ErrInvalidRange) {
		t.Errorf("UsageSummary() = %v, want ErrInvalidRange", err)
	}
	if _, err := report.DayRange("2024-01-10", "2024-01-01", time.UTC); !errors.Is(err, models.ErrInvalidRange) {
		t.Errorf("DayRange() = %v, want ErrInvalidRange", err)
	}
}

func TestAggregation_Idempotent(t *testing.T) {
	openTestDB(t)
	engine := report.NewEngine(db.DB, time.UTC)

	day := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	seedSession(t, "u-1", []tick{
		{start: day, end: day.Add(time.Hour), app: "Google Chrome", title: "Docs - Google Chrome"},
		{start: day.Add(time.Hour), end: day.Add(time.Hour + 10*time.Minute), idle: true},
	})

	rng, _ := report.DayRange("2024-01-10", "2024-01-10", time.UTC)
	ctx := context.Background()

	first, err := engine.Attendance(ctx, "acme", "", rng)
	if err != nil {
		t.Fatalf("Attendance() = %v", err)
	}
	second, err := engine.Attendance(ctx, "acme", "", rng)
	if err != nil {
		t.Fatalf("second Attendance() = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-running attendance changed output:\n%+v\n%+v", first, second)
	}

	firstUsage, err := engine.UsageSummary(ctx, "u-1", rng)
	if err != nil {
		t.Fatalf("UsageSummary() = %v", err)
	}
	secondUsage, err := engine.UsageSummary(ctx, "u-1", rng)
	if err != nil {
		t.Fatalf("second UsageSummary() = %v", err)
	}
	if !reflect.DeepEqual(firstUsage, secondUsage) {
		t.Errorf("re-running usage changed output:\n%+v\n%+v", firstUsage, secondUsage)
	}
}

func TestUsageSummary(t *testing.T) {
	openTestDB(t)
	engine := report.NewEngine(db.DB, time.UTC)

	day := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	seedSession(t, "u-1", []tick{
		// Two visits to the same page, grouped by derived URL.
		{start: day, end: day.Add(30 * time.Second), app: "Google Chrome", title: "Docs - Google Chrome"},
		{start: day.Add(time.Minute), end: day.Add(time.Minute + 30*time.Second), app: "Google Chrome", title: "Docs - Google Chrome"},
		// A non-browser app groups by name.
		{start: day.Add(5 * time.Minute), end: day.Add(5*time.Minute + 90*time.Second), app: "Slack"},
		// No app metadata at all.
		{start: day.Add(10 * time.Minute), end: day.Add(10*time.Minute + 45*time.Second)},
		// Idle time never shows up in usage.
		{start: day.Add(15 * time.Minute), end: day.Add(25 * time.Minute), idle: true, app: "Google Chrome", title: "Docs - Google Chrome"},
	})

	rng, _ := report.DayRange("2024-01-10", "2024-01-10", time.UTC)
	usage, err := engine.UsageSummary(context.Background(), "u-1", rng)
	if err != nil {
		t.Fatalf("UsageSummary() = %v", err)
	}

	want := []report.UsageRow{
		{Label: "Slack", Seconds: 90, Visits: 1},
		{Label: "Docs", Seconds: 60, Visits: 2},
		{Label: "unknown", Seconds: 45, Visits: 1},
	}
	if !reflect.DeepEqual(usage, want) {
		t.Errorf("UsageSummary() = %+v, want %+v", usage, want)
	}
}

func TestSessionSummary_NoIntervals(t *testing.T) {
	openTestDB(t)
	ctx := context.Background()

	session, err := db.StartSession(ctx, "u-1", "acme", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("StartSession() = %v", err)
	}

	summary, err := report.SessionSummary(ctx, db.DB, session.ID)
	if err != nil {
		t.Fatalf("SessionSummary() = %v", err)
	}
	if summary.Intervals != 0 || summary.ActiveSeconds != 0 || summary.IdleSeconds != 0 {
		t.Errorf("empty session summary = %+v, want zeros", summary)
	}
	if summary.FirstActivity != nil || summary.LastActivity != nil {
		t.Errorf("empty session summary has activity bounds: %+v", summary)
	}
}
