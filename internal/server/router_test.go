package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	_ "github.com/kidwell/api-backend/docs"
	"github.com/kidwell/api-backend/internal/config"
	"github.com/kidwell/api-backend/internal/crypto"
	"github.com/kidwell/api-backend/internal/database"
	"github.com/kidwell/api-backend/internal/handlers"
	"github.com/kidwell/api-backend/internal/repositories"
	"github.com/kidwell/api-backend/internal/services"
	"github.com/kidwell/api-backend/internal/storage"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

type cannedAdvice struct{}

func (cannedAdvice) RequestAdvice(ctx context.Context, systemDirective, userPrompt string) (string, error) {
	return "Keep it up.", nil
}

func newTestRouter(t *testing.T, secret string, withCleanup bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.InitDB(database.TestConfig())
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	images, err := storage.NewLocalImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalImageStore() error = %v", err)
	}
	advice, err := services.NewAdviceService(cannedAdvice{}, nil, nil)
	if err != nil {
		t.Fatalf("NewAdviceService() error = %v", err)
	}
	repo := repositories.NewDailyLogRepository(db)
	records := services.NewRecordService(repo, images, advice, nil)

	deps := Dependencies{
		Config: &config.Config{
			Server: config.ServerConfig{
				MaxBodyBytes:   1 << 20,
				AllowedOrigins: []string{"https://app.example.com"},
			},
			Auth: config.AuthConfig{JWTSecret: secret},
		},
		Advice:  handlers.NewAdviceHandler(advice, records, nil, nil),
		Records: handlers.NewRecordHandler(records, nil),
		Ready:   func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	if withCleanup {
		deps.Cleanup = handlers.NewCleanupHandler(services.NewCleanupService(repo, images, 7, nil), nil)
	}

	return NewRouter(deps)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	router := newTestRouter(t, testSecret, false)

	for _, path := range []string{"/ping", "/readyz", "/swagger/doc.json"} {
		t.Run(path, func(t *testing.T) {
			w := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
			if w.Code != http.StatusOK {
				t.Errorf("GET %s = %d, want 200", path, w.Code)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
		})
	}

	w := serve(router, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if !strings.Contains(w.Body.String(), "/api/health/advice") {
		t.Error("swagger document does not describe the advice endpoint")
	}
}

func TestRouter_ParentAuth(t *testing.T) {
	router := newTestRouter(t, testSecret, false)

	token, _, err := crypto.GenerateParentJWT("parent-1", "", testSecret, 0)
	if err != nil {
		t.Fatalf("GenerateParentJWT() error = %v", err)
	}

	tests := []struct {
		name       string
		auth       string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			if w := serve(router, req); w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_AuthDisabled(t *testing.T) {
	router := newTestRouter(t, "", false)

	req := httptest.NewRequest(http.MethodPost, "/api/health/advice", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(router, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Keep it up.") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRouter_CleanupRouteOptional(t *testing.T) {
	without := newTestRouter(t, "", false)
	if w := serve(without, httptest.NewRequest(http.MethodPost, "/api/maintenance/cleanup", nil)); w.Code != http.StatusNotFound {
		t.Errorf("cleanup without retention = %d, want 404", w.Code)
	}

	with := newTestRouter(t, "", true)
	if w := serve(with, httptest.NewRequest(http.MethodPost, "/api/maintenance/cleanup", nil)); w.Code != http.StatusOK {
		t.Errorf("cleanup with retention = %d, want 200", w.Code)
	}
}

func TestRouter_CORS(t *testing.T) {
	router := newTestRouter(t, "", false)

	req := httptest.NewRequest(http.MethodOptions, "/api/health/advice", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(router, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
