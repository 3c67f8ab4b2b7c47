package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter enforces a cooldown per (action, subject): after one hit the same
// subject is refused until the window elapses. A nil redis client disables it.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(action, subject string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, subject)
}

// Allow reports whether subject may perform action now, and arms the cooldown if so.
func (l *Limiter) Allow(ctx context.Context, action, subject string, window time.Duration) (bool, error) {
	if l == nil || l.rdb == nil || window <= 0 {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(action, subject), "locked", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// RetryAfter returns the remaining cooldown for subject.
func (l *Limiter) RetryAfter(ctx context.Context, action, subject string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	ttl, err := l.rdb.TTL(ctx, key(action, subject)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Clear lifts the cooldown, e.g. after the guarded action failed validation.
func (l *Limiter) Clear(ctx context.Context, action, subject string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(action, subject)).Err()
}
