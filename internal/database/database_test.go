package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestInitDB_Memory(t *testing.T) {
	db, err := InitDB(TestConfig())
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	defer Close(db)

	if !db.Migrator().HasTable("daily_logs") {
		t.Error("daily_logs table was not created")
	}
	if !db.Migrator().HasIndex("daily_logs", "idx_daily_logs_parent_date") {
		t.Error("parent/date index was not created")
	}
	if err := Ping(context.Background(), db); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestInitDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "kidwell.db")

	cfg := DefaultConfig(path)
	db, err := InitDB(cfg)
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	if err := Close(db); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// migrations are idempotent
	db, err = InitDB(cfg)
	if err != nil {
		t.Fatalf("second InitDB() error = %v", err)
	}
	Close(db)
}
