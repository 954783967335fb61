package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"flyai/internal/metrics"
	"flyai/pkg/logging/logging"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimiter hands out one token bucket per client IP for a single route.
type RateLimiter struct {
	route    string
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per minute per client IP, with a
// burst of the same size. perMinute <= 0 disables limiting.
func NewRateLimiter(route string, perMinute int) *RateLimiter {
	return &RateLimiter{
		route:    route,
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow consumes a token for ip.
func (l *RateLimiter) Allow(ip string) bool {
	if l.burst <= 0 {
		return true
	}
	now := l.now()

	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Sweep drops buckets idle for longer than limiterIdleTTL.
func (l *RateLimiter) Sweep() {
	cutoff := l.now().Add(-limiterIdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

// Len returns the number of tracked clients.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Middleware responds 429 once a client exceeds the route's limit.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if l.Allow(ip) {
			next.ServeHTTP(w, r)
			return
		}

		metrics.RateLimitedTotal.WithLabelValues(l.route).Inc()
		logging.L(r.Context()).Warn("rate limit exceeded",
			zap.String("route", l.route),
			zap.String("client_ip", ip),
		)
		retryAfter := 1
		if l.limit > 0 {
			retryAfter = int(time.Duration(float64(time.Second)/float64(l.limit)) / time.Second)
		}
		w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
		writeJSONError(w, http.StatusTooManyRequests, "rate_limit_exceeded")
	})
}

// SweepEvery sweeps limiters every interval until ctx is done.
func SweepEvery(ctx context.Context, interval time.Duration, limiters ...*RateLimiter) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, l := range limiters {
				l.Sweep()
			}
		case <-ctx.Done():
			return
		}
	}
}
