package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterWithoutRedisAllowsEverything(t *testing.T) {
	l := New(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "register", "10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ttl, err := l.RetryAfter(ctx, "register", "10.0.0.1")
	require.NoError(t, err)
	assert.Zero(t, ttl)
	assert.NoError(t, l.Clear(ctx, "register", "10.0.0.1"))
}

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "rate_limit:login:a@b.edu", key("login", "a@b.edu"))
}
