package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// Limiter is a fixed-window in-memory rate limiter keyed by caller identity
// (client IP in the HTTP layer). Stale windows are pruned opportunistically
// on each Allow call so the map does not grow without bound.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]window

	Window   time.Duration
	Requests int
	Now      func() time.Time
}

func NewLimiter(windowSize time.Duration, requests int) *Limiter {
	if windowSize <= 0 {
		windowSize = time.Minute
	}
	if requests <= 0 {
		requests = 120
	}
	return &Limiter{
		windows:  make(map[string]window),
		Window:   windowSize,
		Requests: requests,
	}
}

// Allow reports whether the caller may proceed and, when rejected, how long
// until the current window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(now)

	current, ok := l.windows[key]
	if !ok || now.Sub(current.start) >= l.Window {
		l.windows[key] = window{start: now, count: 1}
		return true, 0
	}
	if current.count >= l.Requests {
		return false, l.Window - now.Sub(current.start)
	}
	current.count++
	l.windows[key] = current
	return true, 0
}

func (l *Limiter) prune(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.Window {
			delete(l.windows, key)
		}
	}
}

func (l *Limiter) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now().UTC()
}
