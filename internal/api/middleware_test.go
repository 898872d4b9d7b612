package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/relay"
)

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	origins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"https://prompt-builder-git-main.vercel.app",
		"https://PREVIEW.VERCEL.APP",
	}

	for _, origin := range origins {
		origin := origin
		t.Run(origin, func(t *testing.T) {
			t.Parallel()
			s, err := NewServer(Options{Config: testConfig()})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodOptions, "/api/generate-prompt", nil)
			req.Header.Set("Origin", origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := NewServer(Options{Config: testConfig(), Generator: relay.New(nil, relay.Options{}, nil)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSIgnoresRequestsWithoutOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := NewServer(Options{Config: testConfig(), Generator: relay.New(nil, relay.Options{}, nil)})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Second, nil)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("198.51.100.1"))
	assert.False(t, rl.Allow("198.51.100.1"))
	assert.True(t, rl.Allow("198.51.100.2"))

	now = start.Add(time.Second)
	assert.True(t, rl.Allow("198.51.100.1"))

	now = start.Add(4 * time.Second)
	assert.True(t, rl.Allow("198.51.100.3"))
	assert.Len(t, rl.visitors, 1)
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute, nil)
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("203.0.113.9"))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.RateLimit.Requests = 2
	s, err := NewServer(Options{Config: cfg, Generator: relay.New(nil, relay.Options{}, nil)})
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		last = httptest.NewRecorder()
		s.Handler().ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, string(errors.ErrCodeRateLimited), decodeError(t, last).Error)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}
