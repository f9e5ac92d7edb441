package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aidosbek/staffwatch/internal/models"
)

var DB *gorm.DB

// Initialize sets up the database connection at the default path and runs
// migrations.
func Initialize(debug bool) error {
	dbPath, err := getDatabasePath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	return Open(dbPath, debug)
}

// Open connects to the SQLite database at path and runs migrations. Tests
// point it at a temp directory.
func Open(path string, debug bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create staffwatch directory: %w", err)
	}

	logMode := logger.Silent
	if debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite permits one writer at a time; a single pooled connection turns
	// lock contention into queueing instead of busy errors.
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	DB = db

	if err := runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// getDatabasePath returns the path to the SQLite database file
func getDatabasePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".staffwatch", "staffwatch.db"), nil
}

// runMigrations creates/updates the database schema
func runMigrations() error {
	if err := DB.AutoMigrate(
		&models.Session{},
		&models.ActivityInterval{},
	); err != nil {
		return err
	}

	// AutoMigrate cannot express a partial index. This one is what makes
	// session start an atomic check-and-create: at most one non-Ended
	// session per user, enforced by the store rather than by a
	// read-then-write race.
	return DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_open_user
		 ON sessions(user_id) WHERE status <> 'ended'`,
	).Error
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
