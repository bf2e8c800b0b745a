// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// window tracks one client's request count in the current fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter caps requests per client IP over a fixed window. Counters
// live in memory, so limits apply per process; that is enough for an API
// behind a single ingress.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	period  time.Duration
	stopCh  chan struct{}
}

// NewRateLimiter allows limit requests per period for each client key and
// starts a janitor that drops idle counters.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		period:  period,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.sweep()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the janitor goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// take consumes one request slot for key. It reports whether the request is
// allowed and, when it is not, how long until the window resets.
func (rl *RateLimiter) take(key string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	win, ok := rl.clients[key]
	if !ok || now.After(win.resetAt) {
		rl.clients[key] = &window{count: 1, resetAt: now.Add(rl.period)}
		return true, 0
	}
	if win.count >= rl.limit {
		return false, time.Until(win.resetAt)
	}
	win.count++
	return true, 0
}

// sweep drops counters whose window has already ended.
func (rl *RateLimiter) sweep() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, win := range rl.clients {
		if now.After(win.resetAt) {
			delete(rl.clients, key)
		}
	}
}

// Middleware rejects over-limit requests with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := rl.take(clientIP(r))
		if !ok {
			secs := int(retry.Seconds())
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeJSONError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the originating client address. Proxy headers win over
// RemoteAddr; the leftmost X-Forwarded-For entry is the original client.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
