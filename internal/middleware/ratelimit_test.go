package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Run("disabled outside production", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		for i := 0; i < 10; i++ {
			allowed, err := CheckRateLimit(context.Background(), rdb, "login", "ip:1.2.3.4", 2, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
	})

	t.Run("enforced in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		for i := 0; i < 2; i++ {
			allowed, err := CheckRateLimit(context.Background(), rdb, "login", "ip:5.6.7.8", 2, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, err := CheckRateLimit(context.Background(), rdb, "login", "ip:5.6.7.8", 2, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed, "third request in the window is rejected")

		// A different caller has its own counter.
		allowed, err = CheckRateLimit(context.Background(), rdb, "login", "ip:9.9.9.9", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		// The window expiring resets the counter.
		mr.FastForward(2 * time.Minute)
		allowed, err = CheckRateLimit(context.Background(), rdb, "login", "ip:5.6.7.8", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("nil client errors so policy decides", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, err := CheckRateLimit(context.Background(), nil, "login", "ip:1.1.1.1", 2, time.Minute)
		assert.Error(t, err)
	})
}
