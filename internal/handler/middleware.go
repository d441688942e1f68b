package handler

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thefavrs/backend/internal/errs"
	"github.com/thefavrs/backend/internal/metrics"
	"go.uber.org/zap"
)

// SecurityHeaders adds security response headers (CSP, X-Frame-Options, etc.)
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-XSS-Protection", "0")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// Recover turns a panic in a handler into a 500 INTERNAL_ERROR.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic serving request",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
				writeError(w, errs.Internal())
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Limiter counts requests per key in a one-minute window.
type Limiter interface {
	// Allow records one request for key. When the key is over its limit it
	// returns false and how long until a request would be accepted.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// RateLimiter rejects requests over the limit with 429 before the route
// handler runs. Requests are keyed by client IP and route name.
type RateLimiter struct {
	limiter           Limiter
	trustedProxyCount int
	logger            *zap.Logger
}

// NewRateLimiter creates a RateLimiter. trustedProxyCount is the number of
// reverse proxies in front of the server that append to X-Forwarded-For.
func NewRateLimiter(limiter Limiter, trustedProxyCount int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{limiter: limiter, trustedProxyCount: trustedProxyCount, logger: logger}
}

// Middleware returns an http.Handler that enforces the limit for route.
// Limiter failures let the request through.
func (rl *RateLimiter) Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		allowed, retryAfter, err := rl.limiter.Allow(r.Context(), route+":"+ip)
		if err != nil {
			rl.logger.Warn("rate limiter unavailable, allowing request",
				zap.String("route", route), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			metrics.IncrementRateLimitHit(route)
			w.Header().Set("Retry-After", retryAfterSeconds(retryAfter))
			writeError(w, errs.TooManyRequests())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientIP extracts the real client IP, reading from the rightmost trusted
// proxy position in X-Forwarded-For to prevent spoofing.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && rl.trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		// The rightmost entry added by our infrastructure is at
		// index len(parts) - trustedProxyCount.
		idx := len(parts) - rl.trustedProxyCount
		if idx >= 0 && idx < len(parts) {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// MemoryLimiter is an in-process sliding-window Limiter. Each server
// instance keeps its own counts.
type MemoryLimiter struct {
	maxPerMinute int
	mu           sync.Mutex
	clients      map[string]*clientWindow
	now          func() time.Time
	stop         chan struct{}
	stopOnce     sync.Once
}

type clientWindow struct {
	timestamps []time.Time
}

// NewMemoryLimiter creates a MemoryLimiter allowing maxPerMinute requests per key.
func NewMemoryLimiter(maxPerMinute int) *MemoryLimiter {
	l := &MemoryLimiter{
		maxPerMinute: maxPerMinute,
		clients:      make(map[string]*clientWindow),
		now:          time.Now,
		stop:         make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

var _ Limiter = (*MemoryLimiter)(nil)

// Stop ends the background cleanup. Allow keeps working afterwards.
func (l *MemoryLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// cleanupLoop periodically removes stale entries from the clients map
// until Stop is called.
func (l *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
		windowStart := l.now().Add(-time.Minute)
		l.mu.Lock()
		for key, cw := range l.clients {
			cw.prune(windowStart)
			if len(cw.timestamps) == 0 {
				delete(l.clients, key)
			}
		}
		l.mu.Unlock()
	}
}

// prune drops timestamps outside the window; in-place filter on the shared backing array.
func (cw *clientWindow) prune(windowStart time.Time) {
	valid := cw.timestamps[:0]
	for _, ts := range cw.timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	cw.timestamps = valid
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cw, ok := l.clients[key]
	if !ok {
		cw = &clientWindow{}
		l.clients[key] = cw
	}
	cw.prune(now.Add(-time.Minute))

	if len(cw.timestamps) >= l.maxPerMinute {
		oldest := cw.timestamps[0]
		return false, oldest.Add(time.Minute).Sub(now), nil
	}
	cw.timestamps = append(cw.timestamps, now)
	return true, 0, nil
}
