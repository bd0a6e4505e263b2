package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestTimedCache_GetMissing(t *testing.T) {
	c := New[string]()

	_, ok := c.Get("missing")
	assert.False(t, ok)
	assert.False(t, c.IsFresh("missing", time.Hour))
}

func TestTimedCache_SetStampsCurrentTime(t *testing.T) {
	clock := newFakeClock()
	c := New[int](WithClock(clock.Now))

	c.Set("repos", 42)

	entry, ok := c.Get("repos")
	require.True(t, ok)
	assert.Equal(t, 42, entry.Value)
	assert.Equal(t, clock.Now(), entry.StoredAt)
}

func TestTimedCache_IsFreshWindow(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		ttl     time.Duration
		fresh   bool
	}{
		{name: "immediately after set", elapsed: 0, ttl: 10 * time.Minute, fresh: true},
		{name: "just inside window", elapsed: 10*time.Minute - time.Nanosecond, ttl: 10 * time.Minute, fresh: true},
		{name: "exactly at ttl", elapsed: 10 * time.Minute, ttl: 10 * time.Minute, fresh: false},
		{name: "eleven minutes with ten minute ttl", elapsed: 11 * time.Minute, ttl: 10 * time.Minute, fresh: false},
		{name: "zero ttl is never fresh", elapsed: 0, ttl: 0, fresh: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			c := New[string](WithClock(clock.Now))

			c.Set("k", "v")
			clock.Advance(tt.elapsed)

			assert.Equal(t, tt.fresh, c.IsFresh("k", tt.ttl))
		})
	}
}

func TestTimedCache_SetOverwrites(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithClock(clock.Now))

	c.Set("k", "first")
	clock.Advance(20 * time.Minute)
	require.False(t, c.IsFresh("k", 15*time.Minute))

	c.Set("k", "second")

	entry, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "second", entry.Value)
	assert.True(t, c.IsFresh("k", 15*time.Minute))
}

func TestTimedCache_SetAt(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithClock(clock.Now))

	c.SetAt("old", "v", clock.Now().Add(-11*time.Minute))
	assert.False(t, c.IsFresh("old", 10*time.Minute))

	age, ok := c.Age("old")
	require.True(t, ok)
	assert.Equal(t, 11*time.Minute, age)

	// Future timestamps are clamped
	c.SetAt("future", "v", clock.Now().Add(time.Hour))
	entry, ok := c.Get("future")
	require.True(t, ok)
	assert.Equal(t, clock.Now(), entry.StoredAt)
}

func TestTimedCache_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithClock(clock.Now))

	c.Set("repos", "a")
	clock.Advance(12 * time.Minute)
	c.Set("posts", "b")

	assert.False(t, c.IsFresh("repos", 10*time.Minute))
	assert.True(t, c.IsFresh("posts", 10*time.Minute))
}

func TestTimedCache_ConcurrentAccess(t *testing.T) {
	c := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Set("k", n)
			c.Get("k")
			c.IsFresh("k", time.Minute)
		}(i)
	}
	wg.Wait()

	_, ok := c.Get("k")
	assert.True(t, ok)
}
