package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionRevoker invalidates every token of a user issued up to a moment.
// Cutoffs are unix milliseconds and only need to outlive the token TTL.
type SessionRevoker interface {
	RevokeSessions(ctx context.Context, userID uuid.UUID, at time.Time) error
	IsRevoked(ctx context.Context, claims *Claims) (bool, error)
}

func revokedBefore(claims *Claims, cutoff int64) bool {
	if claims.IssuedAt == nil {
		return true
	}
	return claims.IssuedAt.Time.UnixMilli() <= cutoff
}

func parseCutoff(userID, raw string) (int64, error) {
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt revocation entry for %s: %w", userID, err)
	}
	return cutoff, nil
}

type redisRevoker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRevoker(rdb *redis.Client, ttl time.Duration) SessionRevoker {
	return &redisRevoker{rdb: rdb, ttl: ttl}
}

func revocationKey(userID string) string {
	return fmt.Sprintf("auth:revoked_before:%s", userID)
}

func (r *redisRevoker) RevokeSessions(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.rdb.Set(ctx, revocationKey(userID.String()), at.UnixMilli(), r.ttl).Err()
}

func (r *redisRevoker) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	raw, err := r.rdb.Get(ctx, revocationKey(claims.Subject)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	cutoff, err := parseCutoff(claims.Subject, raw)
	if err != nil {
		return false, err
	}
	return revokedBefore(claims, cutoff), nil
}

type memoryEntry struct {
	cutoff  int64
	expires time.Time
}

// MemoryRevoker keeps revocations in process memory. It serves single
// instance deployments without redis.
type MemoryRevoker struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryRevoker(ttl time.Duration) *MemoryRevoker {
	return &MemoryRevoker{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryRevoker) RevokeSessions(ctx context.Context, userID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, id)
		}
	}
	m.entries[userID.String()] = memoryEntry{cutoff: at.UnixMilli(), expires: now.Add(m.ttl)}
	return nil
}

func (m *MemoryRevoker) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[claims.Subject]
	if !ok || m.now().After(e.expires) {
		return false, nil
	}
	return revokedBefore(claims, e.cutoff), nil
}
