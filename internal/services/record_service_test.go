package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kidwell/api-backend/internal/database"
	"github.com/kidwell/api-backend/internal/models"
	"github.com/kidwell/api-backend/internal/repositories"
	"github.com/kidwell/api-backend/internal/storage"
	"github.com/kidwell/api-backend/internal/validators"
)

func newTestRecordService(t *testing.T, fake *fakeRequester) (*RecordService, *storage.LocalImageStore) {
	t.Helper()

	db, err := database.InitDB(database.TestConfig())
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	images, err := storage.NewLocalImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalImageStore() error = %v", err)
	}

	return NewRecordService(
		repositories.NewDailyLogRepository(db),
		images,
		newTestAdviceService(t, fake, 0),
		nil,
	), images
}

func TestRecordService_CreateAndGet(t *testing.T) {
	svc, _ := newTestRecordService(t, &fakeRequester{})
	ctx := context.Background()

	log, err := svc.CreateRecord(ctx, "parent-1", "", map[string]any{
		FieldBreakfastDescription: "oatmeal",
		FieldExerciseDuration:     45,
	}, nil)
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}
	if log.LogDate != validators.TodayUTC() {
		t.Errorf("LogDate = %q, want today", log.LogDate)
	}
	if log.ExerciseDuration != "45" {
		t.Errorf("ExerciseDuration = %q, want 45", log.ExerciseDuration)
	}

	got, err := svc.GetRecord(ctx, "parent-1", log.ID)
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if got.BreakfastDescription != "oatmeal" {
		t.Errorf("BreakfastDescription = %q", got.BreakfastDescription)
	}
}

func TestRecordService_CreateValidation(t *testing.T) {
	svc, _ := newTestRecordService(t, &fakeRequester{})
	ctx := context.Background()

	tests := []struct {
		name    string
		logDate string
		fields  map[string]any
	}{
		{"bad date", "14/03/2026", nil},
		{"description too long", "2026-03-14", map[string]any{FieldLunchDescription: strings.Repeat("a", validators.MaxDescriptionLength+1)}},
		{"short field too long", "2026-03-14", map[string]any{FieldSleepTotalHours: strings.Repeat("9", validators.MaxShortFieldLength+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRecord(ctx, "parent-1", tt.logDate, tt.fields, nil)
			var vErr *validators.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("CreateRecord() error = %v, want ValidationError", err)
			}
		})
	}

	if _, err := svc.GetRecord(ctx, "parent-1", "not-a-uuid"); err == nil {
		t.Error("GetRecord() with malformed id expected error")
	}
}

func TestRecordService_ImagesAndDelete(t *testing.T) {
	svc, images := newTestRecordService(t, &fakeRequester{})
	ctx := context.Background()

	refs, err := svc.StoreImages(ctx, "parent-1", map[models.MealSlot]ImageUpload{
		models.MealLunch: {ContentType: "image/jpeg", Body: strings.NewReader("jpeg")},
	})
	if err != nil {
		t.Fatalf("StoreImages() error = %v", err)
	}
	if !strings.HasPrefix(refs[models.MealLunch], "parent-1/lunch/") {
		t.Errorf("lunch ref = %q", refs[models.MealLunch])
	}

	log, err := svc.CreateRecord(ctx, "parent-1", "2026-03-14", nil, refs)
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}
	if log.LunchImageRef == nil {
		t.Fatal("LunchImageRef not stored")
	}

	if err := svc.DeleteRecord(ctx, "parent-1", log.ID); err != nil {
		t.Fatalf("DeleteRecord() error = %v", err)
	}
	if _, err := svc.GetRecord(ctx, "parent-1", log.ID); !errors.Is(err, repositories.ErrDailyLogNotFound) {
		t.Errorf("GetRecord() after delete error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(images.Root(), filepath.FromSlash(*log.LunchImageRef))); !os.IsNotExist(err) {
		t.Errorf("lunch image still on disk after delete (stat err: %v)", err)
	}
}

func TestRecordService_StoreImages_RollsBack(t *testing.T) {
	svc, _ := newTestRecordService(t, &fakeRequester{})

	_, err := svc.StoreImages(context.Background(), "parent-1", map[models.MealSlot]ImageUpload{
		models.MealBreakfast: {ContentType: "image/png", Body: strings.NewReader("png")},
		models.MealDinner:    {ContentType: "text/plain", Body: strings.NewReader("nope")},
	})
	if !errors.Is(err, storage.ErrUnsupportedImageType) {
		t.Errorf("StoreImages() error = %v, want ErrUnsupportedImageType", err)
	}
}

func TestRecordService_AdviseRecord(t *testing.T) {
	fake := &fakeRequester{reply: "Try an earlier bedtime."}
	svc, _ := newTestRecordService(t, fake)
	ctx := context.Background()

	log, err := svc.CreateRecord(ctx, "parent-1", "2026-03-14", map[string]any{
		FieldSleepStartTime: "22:45",
	}, nil)
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}

	_, advice, err := svc.AdviseRecord(ctx, "parent-1", log.ID)
	if err != nil {
		t.Fatalf("AdviseRecord() error = %v", err)
	}
	if advice != "Try an earlier bedtime." {
		t.Errorf("advice = %q", advice)
	}
	if !strings.Contains(fake.lastUser, "- Bedtime: 22:45") {
		t.Errorf("prompt not built from stored log:\n%s", fake.lastUser)
	}

	stored, err := svc.GetRecord(ctx, "parent-1", log.ID)
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if !stored.HasAdvice() || *stored.Advice != advice {
		t.Errorf("stored advice = %v", stored.Advice)
	}
}

func TestRecordService_AdviseRecord_Failure(t *testing.T) {
	fake := &fakeRequester{results: []error{newAdviceError(CategoryRateLimited, errors.New("429"))}}
	svc, _ := newTestRecordService(t, fake)
	ctx := context.Background()

	log, err := svc.CreateRecord(ctx, "parent-1", "2026-03-14", nil, nil)
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}

	_, _, err = svc.AdviseRecord(ctx, "parent-1", log.ID)
	if c := CategoryOf(err); c != CategoryRateLimited {
		t.Errorf("category = %s, want rate_limited", c)
	}

	stored, err := svc.GetRecord(ctx, "parent-1", log.ID)
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if stored.HasAdvice() {
		t.Error("failed advice should not be stored")
	}
}

func TestRecordService_DiscardImages_OutlivesRequest(t *testing.T) {
	db, err := database.InitDB(database.TestConfig())
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	store := &recordingImageStore{}
	svc := NewRecordService(repositories.NewDailyLogRepository(db), store, newTestAdviceService(t, &fakeRequester{}, 0), nil)

	ctx, cancel := context.WithCancel(context.Background())
	refs, err := svc.StoreImages(ctx, "parent-1", map[models.MealSlot]ImageUpload{
		models.MealLunch: {ContentType: "image/png", Body: strings.NewReader("png")},
	})
	if err != nil {
		t.Fatalf("StoreImages() error = %v", err)
	}

	// the client goes away before the photos are discarded
	cancel()
	svc.DiscardImages(ctx, refs)

	if len(store.deleted) != 1 || store.deleted[0] != refs[models.MealLunch] {
		t.Fatalf("deleted = %v, want %v", store.deleted, refs)
	}
	if err := store.deleteCtxErrs[0]; err != nil {
		t.Errorf("Delete ran with a dead context: %v", err)
	}
}

func TestRecordService_AdviseRecord_KeepsAdviceWhenSaveFails(t *testing.T) {
	fake := &fakeRequester{reply: "Add fruit to breakfast."}
	svc, _ := newTestRecordService(t, fake)
	ctx := context.Background()

	log, err := svc.CreateRecord(ctx, "parent-1", "2026-03-14", nil, nil)
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}

	// the log disappears while the backend is answering, so saving fails
	fake.onCall = func() {
		if err := svc.logRepo.Delete(ctx, "parent-1", log.ID); err != nil {
			t.Errorf("Delete() error = %v", err)
		}
	}

	_, advice, err := svc.AdviseRecord(ctx, "parent-1", log.ID)
	if err != nil {
		t.Fatalf("AdviseRecord() error = %v, want advice despite save failure", err)
	}
	if advice != "Add fruit to breakfast." {
		t.Errorf("advice = %q", advice)
	}
}
