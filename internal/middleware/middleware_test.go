package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadforge/campaign-api/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	h := NewRecoveryMiddleware(zap.NewNop()).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/campaigns", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:   true,
		MasterKey: "secret",
		SkipPaths: []string{"/health"},
	}
	h := NewAuthMiddleware(cfg, zap.NewNop()).Handler(okHandler())

	tests := []struct {
		name   string
		path   string
		key    string
		status int
	}{
		{"missing key", "/campaigns", "", http.StatusUnauthorized},
		{"wrong key", "/campaigns", "nope", http.StatusUnauthorized},
		{"valid key", "/campaigns", "secret", http.StatusOK},
		{"skip path", "/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.key != "" {
				req.Header.Set(AuthHeaderName, tt.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthMiddlewareQueryParam(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, MasterKey: "secret"}
	h := NewAuthMiddleware(cfg, zap.NewNop()).Handler(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/campaigns?api_key=secret", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddlewareDisabled(t *testing.T) {
	h := NewAuthMiddleware(config.AuthConfig{Enabled: false}, zap.NewNop()).Handler(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/campaigns", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2}
	h := NewRateLimitMiddleware(cfg, zap.NewNop()).Handler(okHandler())

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/campaigns", nil))
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[3])
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false}
	h := NewRateLimitMiddleware(cfg, zap.NewNop()).Handler(okHandler())

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/campaigns", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		logger, err := NewLogger(level, "json")
		assert.NoError(t, err, level)
		assert.NotNil(t, logger)
	}

	logger, err := NewLogger("info", "console")
	assert.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestRateLimitPerIPWrites(t *testing.T) {
	// Per-IP buckets get a tenth of the global budget: 1 rps, burst 2.
	cfg := config.RateLimitConfig{Enabled: true, RPS: 10, Burst: 20}
	rl := NewRateLimitMiddleware(cfg, zap.NewNop())
	h := rl.HandlerPerIPWrites(okHandler())

	post := func() int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/campaigns", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	// Reads are never throttled per IP.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/campaigns", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Dropping the limiter map hands the client a fresh bucket.
	rl.CleanupIPLimiters()
	assert.Equal(t, http.StatusOK, post())
}

func TestRoutePattern(t *testing.T) {
	assert.Equal(t, "/campaigns/:id/metrics", routePattern("/campaigns/abc-123/metrics"))
	assert.Equal(t, "/buyers/:id", routePattern("/buyers/abc-123"))
	assert.Equal(t, "/campaigns", routePattern("/campaigns"))
	assert.Equal(t, "/health", routePattern("/health"))
}
