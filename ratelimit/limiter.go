package ratelimit

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultLimit  = 10
	DefaultWindow = time.Hour
)

// Limiter decides whether one more request for key fits in its window.
type Limiter interface {
	// Allow records the request when it is allowed. When it is not, retryAfter
	// is how long until the oldest request in the window falls out of it.
	Allow(key string) (allowed bool, retryAfter time.Duration)
}

// WindowLimiter keeps a rolling window of request times per key.
// Keys with no request inside the window are evicted by the cache janitor.
type WindowLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits *cache.Cache
}

type Option func(*WindowLimiter)

func WithClock(now func() time.Time) Option {
	return func(l *WindowLimiter) { l.now = now }
}

func NewWindowLimiter(limit int, window time.Duration, opts ...Option) *WindowLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	l := &WindowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   cache.New(window, 10*time.Minute),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *WindowLimiter) Window() time.Duration {
	return l.window
}

func (l *WindowLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.recent(key, now)

	if len(recent) >= l.limit {
		l.hits.Set(key, recent, l.window)
		return false, recent[0].Add(l.window).Sub(now)
	}

	l.hits.Set(key, append(recent, now), l.window)
	return true, 0
}

// recent returns the request times for key that are still inside the window, oldest first.
func (l *WindowLimiter) recent(key string, now time.Time) []time.Time {
	cached, ok := l.hits.Get(key)
	if !ok {
		return nil
	}

	stamps := cached.([]time.Time)
	kept := make([]time.Time, 0, len(stamps)+1)
	for _, ts := range stamps {
		if now.Sub(ts) < l.window {
			kept = append(kept, ts)
		}
	}
	return kept
}
