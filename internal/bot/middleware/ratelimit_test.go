package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_CapsPerUser(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(1), "request %d should pass", i)
	}
	assert.False(t, rl.Allow(1), "fourth request must be limited")

	// Other users have their own budget.
	assert.True(t, rl.Allow(2))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)
	defer rl.Close()

	assert.True(t, rl.Allow(1))
	assert.True(t, rl.Allow(1))
	assert.False(t, rl.Allow(1))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow(1), "budget restored after the window passed")
}

func TestRateLimiter_CloseIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Close()
	rl.Close()
}
