package models

import (
	"testing"
	"time"
)

func TestActivityInterval_Duration(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	interval := ActivityInterval{StartedAt: start, EndedAt: start.Add(90 * time.Second)}
	if got := interval.Duration(); got != 90*time.Second {
		t.Errorf("Duration() = %v, want 90s", got)
	}
}
