package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kidwell/api-backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds database configuration options
type Config struct {
	// DatabasePath is the file path to the SQLite database
	// Example: "./data/kidwell.db" or ":memory:" for in-memory database
	DatabasePath string

	// LogLevel sets GORM logging verbosity
	LogLevel logger.LogLevel

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration

	// Logger receives lifecycle messages; nil disables them
	Logger *zap.Logger
}

// DefaultConfig returns sensible default configuration for production
func DefaultConfig(dbPath string) *Config {
	return &Config{
		DatabasePath:    dbPath,
		LogLevel:        logger.Warn,
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
	}
}

// TestConfig returns configuration suitable for testing (in-memory database).
// An in-memory database lives per connection, so the pool is pinned to one.
func TestConfig() *Config {
	return &Config{
		DatabasePath:    ":memory:",
		LogLevel:        logger.Silent,
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: 0,
	}
}

// InitDB initializes the database connection and runs migrations
func InitDB(config *Config) (*gorm.DB, error) {
	if config == nil {
		config = DefaultConfig("./data/kidwell.db")
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if config.DatabasePath != ":memory:" {
		if err := ensureDBDirectory(config.DatabasePath, log); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		if err := checkDatabaseWritePermissions(config.DatabasePath); err != nil {
			return nil, fmt.Errorf("database directory permission check failed: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(config.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	log.Info("opening SQLite database", zap.String("path", config.DatabasePath))
	db, err := gorm.Open(sqlite.Open(config.DatabasePath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database at %s: %w", config.DatabasePath, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := db.Exec("PRAGMA journal_mode = WAL;").Error; err != nil {
		// Non-fatal
		log.Warn("failed to enable WAL mode", zap.Error(err))
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database initialized")
	return db, nil
}

// runMigrations executes GORM AutoMigrate for all models
func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.DailyLog{}); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}

	if err := createCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to create custom indexes: %w", err)
	}

	return nil
}

// createCustomIndexes creates indexes that aren't automatically created by GORM tags
func createCustomIndexes(db *gorm.DB) error {
	indexes := []string{
		// History queries: one parent's logs by date
		"CREATE INDEX IF NOT EXISTS idx_daily_logs_parent_date ON daily_logs(parent_id, log_date);",

		// Retention cleanup
		"CREATE INDEX IF NOT EXISTS idx_daily_logs_created_at ON daily_logs(created_at);",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return fmt.Errorf("failed to create index: %w (SQL: %s)", err, indexSQL)
		}
	}

	return nil
}

// Close gracefully closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}

// Ping checks if the database connection is alive
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// ensureDBDirectory creates the directory for the database file if it doesn't exist
func ensureDBDirectory(dbPath string, log *zap.Logger) error {
	dir := filepath.Dir(dbPath)
	if dir == "." {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	log.Info("created database directory", zap.String("dir", dir))
	return nil
}

// checkDatabaseWritePermissions verifies that we can write to the database directory
func checkDatabaseWritePermissions(dbPath string) error {
	dir := filepath.Dir(dbPath)

	f, err := os.CreateTemp(dir, ".write_test_")
	if err != nil {
		return fmt.Errorf("cannot write to database directory %s: %w (check permissions)", dir, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	return nil
}
