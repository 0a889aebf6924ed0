package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a limiter whose clock only moves when advanced.
func fixedClock(l *Limiter) func(d time.Duration) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	l.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	return func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()
	fixedClock(l)

	for i := 0; i < 10; i++ {
		ok, info := l.Allow("10.0.0.1", "/jobs", "GET")
		require.True(t, ok, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	ok, info := l.Allow("10.0.0.1", "/jobs", "GET")
	assert.False(t, ok)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond))
	assert.True(t, info.ResetTime.After(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	ok, _ = l.Allow("10.0.0.2", "/jobs", "GET")
	assert.True(t, ok, "other clients have their own bucket")
}

func TestLimiter_Refill(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer l.Stop()
	advance := fixedClock(l)

	for i := 0; i < 60; i++ {
		l.Allow("c", "/x", "GET")
	}
	ok, _ := l.Allow("c", "/x", "GET")
	require.False(t, ok)

	advance(time.Second)
	ok, _ = l.Allow("c", "/x", "GET")
	assert.True(t, ok)
}

func TestLimiter_Rules(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/auto-apply", Method: "POST", Limit: 2, Window: time.Hour},
			{Path: "/admin/", Method: "POST", Limit: 3, Window: time.Minute},
			{Path: "/admin/jobs/", Method: "POST", Limit: 1, Window: time.Minute},
		},
	})
	defer l.Stop()
	fixedClock(l)

	for i := 0; i < 2; i++ {
		ok, info := l.Allow("c", "/auto-apply", "POST")
		require.True(t, ok)
		assert.Equal(t, 2, info.Limit)
	}
	ok, _ := l.Allow("c", "/auto-apply", "POST")
	assert.False(t, ok)

	_, info := l.Allow("c", "/auto-apply", "GET")
	assert.Equal(t, 1000, info.Limit, "method must match")

	_, info = l.Allow("c", "/admin/users/1/role", "POST")
	assert.Equal(t, 3, info.Limit)

	_, info = l.Allow("c", "/admin/jobs/1/toggle", "POST")
	assert.Equal(t, 1, info.Limit, "longest prefix wins")
}

func TestLimiter_PrefixRuleSharesBucket(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Minute,
		Rules: []Rule{{Path: "/admin/", Method: "DELETE", Limit: 1, Window: time.Minute}},
	})
	defer l.Stop()
	fixedClock(l)

	ok, _ := l.Allow("c", "/admin/jobs/1", "DELETE")
	require.True(t, ok)
	ok, _ = l.Allow("c", "/admin/jobs/2", "DELETE")
	assert.False(t, ok)
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 20; i++ {
		ok, info := l.Allow("c", "/health", "GET")
		require.True(t, ok)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_Lists(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute,
		Whitelist: map[string]bool{"10.0.0.1": true},
		Blacklist: map[string]bool{"10.0.0.9": true},
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		ok, _ := l.Allow("10.0.0.1", "/jobs", "GET")
		assert.True(t, ok)
	}
	ok, _ := l.Allow("10.0.0.9", "/jobs", "GET")
	assert.False(t, ok)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false, DefaultLimit: 1})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		ok, info := l.Allow("c", "/orders", "POST")
		assert.True(t, ok)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer l.Stop()
	fixedClock(l)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/jobs", "GET"); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(50), allowed.Load())
}

func TestLimiter_EvictIdle(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})
	defer l.Stop()
	advance := fixedClock(l)

	l.Allow("a", "/jobs", "GET")
	advance(2 * time.Hour)
	l.Allow("b", "/jobs", "GET")

	assert.Equal(t, 1, l.evictIdle(time.Hour))
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	assert.NotPanics(t, func() {
		l.Stop()
		l.Stop()
	})
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1, ,10.0.0.2")

	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.NotEmpty(t, cfg.Rules)
}
