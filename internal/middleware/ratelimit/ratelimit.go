// Package ratelimit caps how often a client may write to the spreadsheet.
// The Sheets API enforces per-user write quotas; rejecting bursts here gives
// a clear message instead of an opaque quota error from the API.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	// Entries idle longer than StaleAfter are dropped on cleanup.
	StaleAfter time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 30,
		StaleAfter:        10 * time.Minute,
	}
}

type window struct {
	start time.Time
	count int
}

// Limiter is a fixed one-minute window per client key.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	stale   time.Duration
	now     func() time.Time
}

func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.StaleAfter <= 0 {
		config.StaleAfter = def.StaleAfter
	}
	return &Limiter{
		clients: make(map[string]*window),
		limit:   config.RequestsPerMinute,
		stale:   config.StaleAfter,
		now:     time.Now,
	}
}

// Allow records one request from key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.clients[key] = &window{start: now, count: 1}
		l.cleanupLocked(now)
		return true
	}
	w.count++
	return w.count <= l.limit
}

// cleanupLocked drops idle entries; called on new windows so the map stays
// bounded without a background goroutine.
func (l *Limiter) cleanupLocked(now time.Time) {
	cutoff := now.Add(-l.stale)
	for k, w := range l.clients {
		if w.start.Before(cutoff) {
			delete(l.clients, k)
		}
	}
}

// ActiveClients returns the number of currently tracked clients
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware limits requests whose method is in methods; others pass through.
func (l *Limiter) Middleware(extractKey func(*http.Request) string, onLimit http.HandlerFunc, methods ...string) func(http.Handler) http.Handler {
	limited := make(map[string]bool, len(methods))
	for _, m := range methods {
		limited[m] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(limited) > 0 && !limited[r.Method] {
				next.ServeHTTP(w, r)
				return
			}
			if !l.Allow(extractKey(r)) {
				w.Header().Set("Retry-After", "60")
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
