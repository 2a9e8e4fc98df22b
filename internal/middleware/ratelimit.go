// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// visitor holds the sliding window of request times for one client IP.
type visitor struct {
	mu   sync.Mutex
	hits []time.Time
}

// prune drops hits older than the cutoff and reports how many remain.
func (v *visitor) prune(cutoff time.Time) int {
	kept := v.hits[:0]
	for _, ts := range v.hits {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	v.hits = kept
	return len(kept)
}

// RateLimiter caps requests per client IP over a sliding window. The
// public page endpoints are the hot path here: a scraper pulling every
// page and event projection in a tight loop gets a 429 instead of a
// database connection.
type RateLimiter struct {
	mu       sync.RWMutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	stopCh   chan struct{}
}

// NewRateLimiter allows limit requests per window for each client IP and
// starts a background sweep that evicts idle visitors.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		stopCh:   make(chan struct{}),
	}

	go rl.sweep()
	return rl
}

// Stop terminates the background sweep goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.window)
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				v.mu.Lock()
				idle := v.prune(cutoff) == 0
				v.mu.Unlock()
				if idle {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// allow records a hit for key and reports whether it stays under the limit.
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.RLock()
	v, ok := rl.visitors[key]
	rl.mu.RUnlock()

	if !ok {
		rl.mu.Lock()
		// Re-check under the write lock.
		v, ok = rl.visitors[key]
		if !ok {
			v = &visitor{}
			rl.visitors[key] = v
		}
		rl.mu.Unlock()
	}

	now := time.Now()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.prune(now.Add(-rl.window)) >= rl.limit {
		return false
	}
	v.hits = append(v.hits, now)
	return true
}

// Middleware rejects over-limit clients with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(rl.window.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", retryAfter)
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the originating client address. The server sits
// behind a reverse proxy in production, so the forwarding headers win
// over RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Leftmost entry is the original client.
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
