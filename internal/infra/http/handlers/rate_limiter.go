package handlers

import (
	"sync"
	"time"
)

const rateLimitSweepEvery = 10 * time.Minute

// RateLimiter admits up to limit calls per key in each fixed window.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
	limit   int
	period  time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

type rateWindow struct {
	start time.Time
	hits  int
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*rateWindow),
		limit:   limit,
		period:  period,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go rl.sweep(rateLimitSweepEvery)
	return rl
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) > rl.period {
		rl.windows[key] = &rateWindow{start: now, hits: 1}
		return true
	}
	w.hits++
	return w.hits <= rl.limit
}

// Stop ends the sweep goroutine. Calling it again is a no-op.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.evictStale()
		}
	}
}

// evictStale drops windows idle for two periods.
func (rl *RateLimiter) evictStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-2 * rl.period)
	for key, w := range rl.windows {
		if w.start.Before(cutoff) {
			delete(rl.windows, key)
		}
	}
}
