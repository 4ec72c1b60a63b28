// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/response"
)

// bucket is a fixed-window request counter for one client IP.
type bucket struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per client IP in fixed windows.
type Limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		buckets: make(map[string]*bucket),
	}
}

// Allow records one request from ip and reports whether it is within the
// limit, plus the remaining allowance.
func (l *Limiter) Allow(ip string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[ip]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[ip] = b
	}
	b.count++

	if len(l.buckets) > 10000 {
		l.evictLocked(now)
	}

	remaining := l.max - b.count
	if remaining < 0 {
		remaining = 0
	}
	return b.count <= l.max, remaining
}

func (l *Limiter) evictLocked(now time.Time) {
	for ip, b := range l.buckets {
		if now.After(b.resetAt) {
			delete(l.buckets, ip)
		}
	}
}

// Middleware answers 429 once a client exceeds the limit.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, remaining := l.Allow(ClientIP(r))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			response.Error(w, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit limits each IP to max requests per window.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	return NewLimiter(max, window).Middleware
}

// ClientIP returns the first X-Forwarded-For hop, X-Real-Ip, or the host
// part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
