package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/skillnest/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ScopeResource = "resource"
	ScopeComment  = "comment"
)

// RateLimitError carries how long the caller has to wait.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

func key(userID uuid.UUID, scope string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), scope)
}

// CheckAndSetRateLimit returns true when the action is allowed and arms the cooldown.
// A nil client disables limiting.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, scope string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, key(userID, scope), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, scope string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, key(userID, scope)).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, scope string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, key(userID, scope)).Result()
	return err
}

// Guard checks the cooldown and returns a RateLimitError when it is still running.
// The returned release func clears the cooldown, for callers whose action failed afterwards.
func Guard(ctx context.Context, rdb *redis.Client, userID uuid.UUID, scope string, limit time.Duration) (func(), error) {
	allowed, err := CheckAndSetRateLimit(ctx, rdb, userID, scope, limit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, rdb, userID, scope)
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	return func() {
		_ = ClearRateLimit(context.Background(), rdb, userID, scope)
	}, nil
}
