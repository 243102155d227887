package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(10, time.Minute, WithClock(func() time.Time { return now }))

	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow(7), "request %d should be accepted", i+1)
	}
	assert.False(t, limiter.Allow(7), "11th request should be rejected")
	assert.False(t, limiter.Allow(7), "12th request should be rejected")
}

func TestLimiter_WindowRollover(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(10, time.Minute, WithClock(func() time.Time { return now }))

	for i := 0; i < 10; i++ {
		limiter.Allow(7)
	}
	assert.False(t, limiter.Allow(7))

	// 59s in: still the same window.
	now = now.Add(59 * time.Second)
	assert.False(t, limiter.Allow(7))

	// Window elapsed: counter resets.
	now = now.Add(1 * time.Second)
	assert.True(t, limiter.Allow(7))
}

func TestLimiter_KeyedByActor(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(10, time.Minute, WithClock(func() time.Time { return now }))

	for i := 0; i < 10; i++ {
		limiter.Allow(1)
	}
	assert.False(t, limiter.Allow(1))
	assert.True(t, limiter.Allow(2), "another actor has its own window")
}

func TestLimiter_ConcurrentAtCapacity(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(10, time.Minute, WithClock(func() time.Time { return now }))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow(7) {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted, "exactly the limit may pass under contention")
}

func TestLimiter_SweepsExpiredBuckets(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLimiter(10, time.Minute, WithClock(func() time.Time { return now }))

	limiter.Allow(1)
	limiter.Allow(2)

	now = now.Add(2 * time.Minute)
	limiter.Allow(3)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.buckets, 1, "expired buckets are swept when a new window opens")
}
