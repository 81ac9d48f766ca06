package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"civic-writer-api/internal/application/writer"
	"civic-writer-api/internal/config"
	"civic-writer-api/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type denyLimiter struct{ calls int }

func (l *denyLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.calls++
	return false, nil
}

func newTestRouter(limiter *denyLimiter) *Router {
	cfg := &config.Config{}
	cfg.App.Name = "civic-writer-api"
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Metrics.Path = "/metrics"
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 5, Burst: 10}
	cfg.Flows.Speech.Placeholder = "아직 생성된 연설문이 없습니다."
	cfg.Flows.Speech.Filename = "연설문.txt"

	svc := writer.NewFlowService(cfg.Flows, nil, nil, writer.GuardOptions{})
	return New(cfg, RouterHandlers{
		Health:       handler.NewHealthHandler("test", nil),
		Speech:       handler.NewSpeechHandler(svc),
		PressRelease: handler.NewPressReleaseHandler(svc),
		Download:     handler.NewDownloadHandler(svc),
	}, limiter)
}

func TestRoutesAreMounted(t *testing.T) {
	r := newTestRouter(&denyLimiter{})

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/", http.StatusFound},
		{http.MethodGet, "/speech", http.StatusOK},
		{http.MethodGet, "/v1/flows/speech/options", http.StatusOK},
		{http.MethodPost, "/v1/flows/speech/download", http.StatusNotFound},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.Engine().ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("code=%d want %d", w.Code, tc.want)
			}
		})
	}
}

func TestGenerationRoutesAreRateLimited(t *testing.T) {
	limiter := &denyLimiter{}
	r := newTestRouter(limiter)

	for _, path := range []string{"/speech", "/v1/flows/speech/generations", "/v1/flows/press-release/generations"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.Engine().ServeHTTP(w, req)
		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("%s code=%d", path, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/flows/speech/prompt", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("prompt preview should not be rate limited, code=%d", w.Code)
	}
	if limiter.calls != 3 {
		t.Fatalf("limiter calls=%d", limiter.calls)
	}
}

func TestSessionCookieIssued(t *testing.T) {
	r := newTestRouter(&denyLimiter{})
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/speech", nil))

	if !strings.Contains(w.Header().Get("Set-Cookie"), "writer_session=") {
		t.Fatalf("session cookie missing: %v", w.Header())
	}
}
