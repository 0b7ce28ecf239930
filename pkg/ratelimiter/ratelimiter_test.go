package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/skillnest/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardWithoutRedisAlwaysAllows(t *testing.T) {
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		release, err := Guard(context.Background(), nil, userID, ScopeComment, time.Minute)
		require.NoError(t, err)
		require.NotNil(t, release)
		release()
	}
}

func TestRateLimitErrorUnwrapsToSentinel(t *testing.T) {
	err := &RateLimitError{Message: "slow down", RetryAfter: 3 * time.Second}

	assert.True(t, errors.Is(err, apperror.ErrRateLimitExceeded))
	assert.Equal(t, "slow down", err.Error())
}

func TestGuardWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	userID := uuid.New()

	release, err := Guard(ctx, rdb, userID, ScopeResource, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, release)

	_, err = Guard(ctx, rdb, userID, ScopeResource, time.Minute)
	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, time.Minute, rlErr.RetryAfter)
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)

	_, err = Guard(ctx, rdb, userID, ScopeComment, time.Minute)
	assert.NoError(t, err, "scopes are independent")

	release()
	_, err = Guard(ctx, rdb, userID, ScopeResource, time.Minute)
	assert.NoError(t, err, "release clears the cooldown")

	mr.FastForward(2 * time.Minute)
	_, err = Guard(ctx, rdb, userID, ScopeComment, time.Minute)
	assert.NoError(t, err, "cooldown expires")
}

func TestGuardZeroLimitDisablesLimiting(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	for i := 0; i < 2; i++ {
		_, err := Guard(context.Background(), rdb, uuid.New(), ScopeComment, 0)
		require.NoError(t, err)
	}
}
