package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiters tracks one token bucket per client IP and drops buckets
// that have been idle past the ttl.
type clientLimiters struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu   sync.Mutex
	m    map[string]*clientLimiter
	last time.Time // last sweep
}

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

func newClientLimiters(limit rate.Limit, burst int, ttl time.Duration) *clientLimiters {
	return &clientLimiters{
		limit: limit,
		burst: burst,
		ttl:   ttl,
		m:     make(map[string]*clientLimiter),
		last:  time.Now(),
	}
}

func (c *clientLimiters) allow(key string) bool {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.last) > c.ttl {
		for k, v := range c.m {
			if now.Sub(v.seen) > c.ttl {
				delete(c.m, k)
			}
		}
		c.last = now
	}

	cl := c.m[key]
	if cl == nil {
		cl = &clientLimiter{lim: rate.NewLimiter(c.limit, c.burst)}
		c.m[key] = cl
	}
	cl.seen = now
	return cl.lim.Allow()
}

// RateLimit limits requests per client IP. Example: RateLimit(120, 60)
// allows 120 requests per minute with a burst of 60. A non-positive
// reqPerMin disables limiting.
func RateLimit(reqPerMin, burst int) func(http.Handler) http.Handler {
	if reqPerMin <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiters := newClientLimiters(rate.Limit(float64(reqPerMin)/60.0), burst, 10*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
