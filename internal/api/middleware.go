package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/logger"
)

// CORS allows the exact origins and any origin matching one of the patterns.
// Requests without an Origin header are not affected.
func CORS(origins, patterns []string) (gin.HandlerFunc, error) {
	exact := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		exact[strings.TrimSuffix(o, "/")] = struct{}{}
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.ValidationError(fmt.Sprintf("invalid origin pattern %q", p)).WithDetails(err.Error())
		}
		compiled = append(compiled, re)
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if _, ok := exact[origin]; ok {
				return true
			}
			for _, re := range compiled {
				if re.MatchString(origin) {
					return true
				}
			}
			return false
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}), nil
}

// RequestLogger writes one line per request, leveled by status
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds one token bucket per client IP
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	window   time.Duration
	lastGC   time.Time
	now      func() time.Time
	handler  *errors.HTTPErrorHandler
}

// NewRateLimiter allows requests per window for each client IP. A requests
// value of 0 or less disables limiting.
func NewRateLimiter(requests int, window time.Duration, handler *errors.HTTPErrorHandler) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if handler == nil {
		handler = errors.NewHTTPErrorHandler(false, nil)
	}
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		burst:    requests,
		window:   window,
		now:      time.Now,
		handler:  handler,
	}
	if requests > 0 {
		rl.limit = rate.Every(window / time.Duration(requests))
	}
	return rl
}

// Allow reports whether ip may make another request now
func (rl *RateLimiter) Allow(ip string) bool {
	if rl.burst <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.collect(now)

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// collect drops visitors idle for more than two windows. Callers hold mu.
func (rl *RateLimiter) collect(now time.Time) {
	if now.Sub(rl.lastGC) < rl.window {
		return
	}
	rl.lastGC = now
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > 2*rl.window {
			delete(rl.visitors, ip)
		}
	}
}

// Middleware rejects requests over the limit with RATE_LIMITED
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || rl.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.Header("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
		status, body := rl.handler.Respond(errors.NewAppError(errors.ErrCodeRateLimited, "Too many requests, try again later"))
		c.AbortWithStatusJSON(status, body)
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
