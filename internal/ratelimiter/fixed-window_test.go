package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewFixedWindowLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, _ := rl.Allow("1.2.3.4")
		assert.True(t, ok)
	}

	now = now.Add(20 * time.Second)
	ok, retry := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	ok, _ = rl.Allow("5.6.7.8")
	assert.True(t, ok, "other clients have their own window")

	now = now.Add(40 * time.Second)
	ok, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok, "window rolled over")
}

func TestSweepDropsExpiredWindows(t *testing.T) {
	now := time.Now()
	rl := NewFixedWindowLimiter(1, time.Second)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(2 * time.Second)
	rl.Allow("b")
	rl.sweep()

	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "b")
}

func TestNewFixedWindowLimiter(t *testing.T) {
	rl := NewFixedWindowLimiter(3, 30*time.Second)

	assert.Equal(t, 3, rl.limit)
	assert.Equal(t, 30*time.Second, rl.window)
	assert.Empty(t, rl.clients)
}
