package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	rateLimitMax    = 60          // mutating requests per window per client
	rateLimitWindow = time.Minute // fixed window, reset on first request after expiry
	rateLimitSweep  = 5 * time.Minute
	rateLimitStale  = 10 * time.Minute
)

// rateLimiter is an in-memory fixed-window limiter keyed by client IP.
type rateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow

	done     chan struct{}
	stopOnce sync.Once
}

type rateWindow struct {
	openedAt time.Time
	count    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		windows: make(map[string]*rateWindow),
		done:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// allow counts a request against the client's current window, opening
// a fresh window when the previous one expired. Returns false once the
// window exceeds rateLimitMax.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w := rl.windows[clientIP]
	if w == nil || now.Sub(w.openedAt) > rateLimitWindow {
		rl.windows[clientIP] = &rateWindow{openedAt: now, count: 1}
		return true
	}

	w.count++
	if w.count > rateLimitMax {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}

// activeClients returns the number of currently tracked clients.
func (rl *rateLimiter) activeClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

func (rl *rateLimiter) sweepLoop() {
	ticker := time.NewTicker(rateLimitSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep drops windows that have been idle past the stale cutoff so the
// map does not grow with one entry per IP ever seen.
func (rl *rateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rateLimitStale)
	for ip, w := range rl.windows {
		if w.openedAt.Before(cutoff) {
			delete(rl.windows, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
}
