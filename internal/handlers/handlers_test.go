package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kidwell/api-backend/internal/database"
	"github.com/kidwell/api-backend/internal/middleware"
	"github.com/kidwell/api-backend/internal/repositories"
	"github.com/kidwell/api-backend/internal/services"
	"github.com/kidwell/api-backend/internal/storage"
)

const testBodyLimit = 1 << 20

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRequester stands in for the advice backend
type stubRequester struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	lastUser string
	onCall   func()
}

func (s *stubRequester) RequestAdvice(ctx context.Context, systemDirective, userPrompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastUser = userPrompt
	if s.onCall != nil {
		s.onCall()
	}
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubRequester) snapshot() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, s.lastUser
}

type sentDigest struct {
	to, logDate, advice string
}

type stubDigest struct {
	mu   sync.Mutex
	sent []sentDigest
	err  error
}

func (s *stubDigest) SendAdviceDigest(ctx context.Context, toEmail, logDate, advice string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentDigest{to: toEmail, logDate: logDate, advice: advice})
	return s.err
}

// observedStore records the context state each Delete ran under
type observedStore struct {
	storage.ImageStore
	mu            sync.Mutex
	deleteCtxErrs []error
}

func (s *observedStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	s.deleteCtxErrs = append(s.deleteCtxErrs, ctx.Err())
	s.mu.Unlock()
	return s.ImageStore.Delete(ctx, ref)
}

type testEnv struct {
	router    *gin.Engine
	requester *stubRequester
	digest    *stubDigest
	records   *services.RecordService
	images    *storage.LocalImageStore
	store     *observedStore
	advice    *AdviceHandler
}

func newTestEnv(t *testing.T) *testEnv {
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

	requester := &stubRequester{reply: "Eat more vegetables."}
	adviceService, err := services.NewAdviceService(requester, &services.AdviceServiceConfig{}, nil)
	if err != nil {
		t.Fatalf("NewAdviceService() error = %v", err)
	}

	store := &observedStore{ImageStore: images}
	repo := repositories.NewDailyLogRepository(db)
	records := services.NewRecordService(repo, store, adviceService, nil)
	digest := &stubDigest{}

	adviceHandler := NewAdviceHandler(adviceService, records, digest, nil)
	recordHandler := NewRecordHandler(records, nil)
	cleanupHandler := NewCleanupHandler(services.NewCleanupService(repo, images, 30, nil), nil)

	router := gin.New()
	router.GET("/ping", PingHandler)
	api := router.Group("/api", middleware.LimitBodySize(testBodyLimit), middleware.ParentAuthMiddleware(""))
	api.POST("/health/advice", adviceHandler.RequestAdvice)
	api.POST("/records", recordHandler.CreateRecord)
	api.GET("/records", recordHandler.ListRecords)
	api.GET("/records/:id", recordHandler.GetRecord)
	api.DELETE("/records/:id", recordHandler.DeleteRecord)
	api.POST("/records/:id/advice", recordHandler.AdviseRecord)
	api.POST("/maintenance/cleanup", cleanupHandler.RunCleanup)

	return &testEnv{
		router:    router,
		requester: requester,
		digest:    digest,
		records:   records,
		images:    images,
		store:     store,
		advice:    adviceHandler,
	}
}

func (e *testEnv) do(method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postJSON(path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	return e.do(http.MethodPost, path, "application/json", body)
}

// storedFiles counts image files left in the local store
func (e *testEnv) storedFiles(t *testing.T) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(e.images.Root(), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir() error = %v", err)
	}
	return n
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}
