package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.DatabasePath = "/tmp/staffwatch-test.db"
	cfg.ReportingUTCOffsetMin = 300
	cfg.Browsers = []string{"Yandex Browser"}

	if err := Write(tmpDir, cfg); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := Read(tmpDir)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if loaded.DatabasePath != cfg.DatabasePath {
		t.Errorf("DatabasePath: got %q, want %q", loaded.DatabasePath, cfg.DatabasePath)
	}
	if loaded.ReportingUTCOffsetMin != 300 {
		t.Errorf("ReportingUTCOffsetMin: got %d, want 300", loaded.ReportingUTCOffsetMin)
	}
	if len(loaded.Browsers) != 1 || loaded.Browsers[0] != "Yandex Browser" {
		t.Errorf("Browsers: got %v, want [Yandex Browser]", loaded.Browsers)
	}
}

func TestReadMissingFileUsesDefaults(t *testing.T) {
	loaded, err := Read(t.TempDir())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	def := DefaultConfig()
	if loaded.MinTickSeconds != def.MinTickSeconds || loaded.MaxTickSeconds != def.MaxTickSeconds {
		t.Errorf("tick bounds: got (%d, %d), want defaults (%d, %d)",
			loaded.MinTickSeconds, loaded.MaxTickSeconds, def.MinTickSeconds, def.MaxTickSeconds)
	}
}

func TestReadMalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, configDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte("{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(tmpDir); err == nil {
		t.Error("Read() = nil error for malformed YAML")
	}
}

func TestReportingLocation(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ReportingLocation() != time.UTC {
		t.Errorf("default ReportingLocation() = %v, want UTC", cfg.ReportingLocation())
	}

	cfg.ReportingUTCOffsetMin = 330 // UTC+05:30
	loc := cfg.ReportingLocation()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).In(loc)
	if at.Hour() != 5 || at.Minute() != 30 {
		t.Errorf("midnight UTC in reporting zone = %02d:%02d, want 05:30", at.Hour(), at.Minute())
	}
}
