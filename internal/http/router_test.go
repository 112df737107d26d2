package http

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questionnaire-reader/internal/dataset"
	"questionnaire-reader/internal/service"
)

type stubLimiter struct {
	allow bool
	keys  []string
}

func (l *stubLimiter) Allow(key string) bool {
	l.keys = append(l.keys, key)
	return l.allow
}

func fixtureLayout(t *testing.T) dataset.Layout {
	t.Helper()
	l, err := dataset.LoadLayout(filepath.Join("..", "dataset", "testdata", "layout.yaml"))
	if err != nil {
		t.Fatalf("load layout: %v", err)
	}
	return l
}

func newTestRouter(t *testing.T, tokenSvc *service.TokenService, limiter service.RateLimiter, origins []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	scoring := service.NewScoringService(2, logger)
	return NewRouter(
		logger,
		NewScoreHandler(logger, scoring),
		NewDatasetHandler(logger, scoring, fixtureLayout(t), 1<<20),
		tokenSvc,
		limiter,
		origins,
	)
}

const shsBody = `{"responses":["5","5","5","3"]}`

func TestRouter_Healthz(t *testing.T) {
	r := newTestRouter(t, nil, nil, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_OpenWithoutSecret(t *testing.T) {
	r := newTestRouter(t, service.NewTokenService("", time.Minute, nil), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/score/shs", strings.NewReader(shsBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RequiresTokenWhenEnabled(t *testing.T) {
	tokenSvc := service.NewTokenService("secret", time.Minute, service.NewMemoryRevocationStore())
	r := newTestRouter(t, tokenSvc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/score/shs", strings.NewReader(shsBody))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	tok, err := tokenSvc.Issue("lab-a", 0)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/v1/score/shs", strings.NewReader(shsBody))
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RevokeToken(t *testing.T) {
	tokenSvc := service.NewTokenService("secret", time.Minute, service.NewMemoryRevocationStore())
	r := newTestRouter(t, tokenSvc, nil, nil)
	tok, err := tokenSvc.Issue("lab-a", 0)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/token", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/score/shs", strings.NewReader(shsBody))
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after revoke, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "token revoked") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_RateLimitByClient(t *testing.T) {
	tokenSvc := service.NewTokenService("secret", time.Minute, nil)
	limiter := &stubLimiter{allow: false}
	r := newTestRouter(t, tokenSvc, limiter, nil)
	tok, err := tokenSvc.Issue("lab-a", 0)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/score/shs", strings.NewReader(shsBody))
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "client:lab-a" {
		t.Fatalf("unexpected limiter keys %v", limiter.keys)
	}
}

func TestRouter_RateLimitByIP(t *testing.T) {
	limiter := &stubLimiter{allow: true}
	r := newTestRouter(t, nil, limiter, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/score/shs", strings.NewReader(shsBody))
	req.RemoteAddr = "10.0.0.7:5123"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "ip:10.0.0.7" {
		t.Fatalf("unexpected limiter keys %v", limiter.keys)
	}
}

func TestRouter_CORS(t *testing.T) {
	r := newTestRouter(t, nil, nil, []string{"https://lab.example"})

	req := httptest.NewRequest(http.MethodPost, "/v1/score/shs", strings.NewReader(shsBody))
	req.Header.Set("Origin", "https://lab.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://lab.example" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
