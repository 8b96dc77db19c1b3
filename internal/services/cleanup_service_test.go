package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kidwell/api-backend/internal/database"
	"github.com/kidwell/api-backend/internal/models"
	"github.com/kidwell/api-backend/internal/repositories"
)

type recordingImageStore struct {
	deleted []string
	// deleteCtxErrs holds ctx.Err() as seen by each Delete
	deleteCtxErrs []error
}

func (s *recordingImageStore) Save(ctx context.Context, prefix, contentType string, body io.Reader) (string, error) {
	return prefix + "/img.jpg", nil
}

func (s *recordingImageStore) Delete(ctx context.Context, ref string) error {
	s.deleted = append(s.deleted, ref)
	s.deleteCtxErrs = append(s.deleteCtxErrs, ctx.Err())
	return ctx.Err()
}

func TestCleanupService_RunCleanupNow(t *testing.T) {
	db, err := database.InitDB(database.TestConfig())
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	defer database.Close(db)

	repo := repositories.NewDailyLogRepository(db)
	ctx := context.Background()

	ref := "parent-1/breakfast/old.jpg"
	old := models.NewDailyLog(uuid.New().String(), "parent-1", "2025-01-01", models.NewHealthRecord())
	old.BreakfastImageRef = &ref
	recent := models.NewDailyLog(uuid.New().String(), "parent-1", "2026-03-14", models.NewHealthRecord())
	for _, log := range []*models.DailyLog{old, recent} {
		if err := repo.Create(ctx, log); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	backdated := time.Now().UTC().Add(-40 * 24 * time.Hour)
	if err := db.Model(&models.DailyLog{}).Where("id = ?", old.ID).UpdateColumn("created_at", backdated).Error; err != nil {
		t.Fatalf("failed to backdate log: %v", err)
	}

	images := &recordingImageStore{}
	svc := NewCleanupService(repo, images, 30, nil)

	result, err := svc.RunCleanupNow(ctx)
	if err != nil {
		t.Fatalf("RunCleanupNow() error = %v", err)
	}
	if result.LogsDeleted != 1 {
		t.Errorf("LogsDeleted = %d, want 1", result.LogsDeleted)
	}
	if result.ImagesDeleted != 1 || len(images.deleted) != 1 || images.deleted[0] != ref {
		t.Errorf("deleted images = %v, want [%s]", images.deleted, ref)
	}

	count, err := repo.Count(ctx, "parent-1")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestCleanupService_StartStop(t *testing.T) {
	db, err := database.InitDB(database.TestConfig())
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	defer database.Close(db)

	svc := NewCleanupService(repositories.NewDailyLogRepository(db), nil, 30, nil)
	svc.Start()

	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}
}
