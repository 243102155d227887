package ratelimit

import (
	"sync"
	"time"
)

// Limiter caps accepted requests per actor over a fixed window. The
// window opens at the actor's first request and expires on its own;
// expired buckets are overwritten on the next request and swept lazily.
//
// Check and increment happen under one lock so concurrent requests at
// capacity cannot both pass.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[int64]*bucket
	now     func() time.Time
}

type bucket struct {
	windowStart time.Time
	count       int
}

type option func(*Limiter)

func NewLimiter(limit int, window time.Duration, opts ...option) *Limiter {
	if limit < 1 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	l := &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[int64]*bucket),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(l *Limiter) {
		l.now = now
	}
}

// Allow records one request for the actor and reports whether it fits
// within the current window.
func (l *Limiter) Allow(actorID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[actorID]
	if !ok || now.Sub(b.windowStart) >= l.window {
		l.sweep(now)
		l.buckets[actorID] = &bucket{windowStart: now, count: 1}

		return true
	}

	if b.count >= l.limit {
		return false
	}
	b.count++

	return true
}

// sweep drops expired buckets. Called with the lock held, only when a
// new window opens, so steady-state requests pay nothing.
func (l *Limiter) sweep(now time.Time) {
	for id, b := range l.buckets {
		if now.Sub(b.windowStart) >= l.window {
			delete(l.buckets, id)
		}
	}
}
