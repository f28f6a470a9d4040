// Package cache provides a redis-backed cache for per-user membership id
// sets. Clients refresh their join state from /me/memberships on demand, so
// the sets are read far more often than they change.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MembershipKind selects which id set a cache entry holds.
type MembershipKind string

const (
	KindCommunity MembershipKind = "community"
	KindProject   MembershipKind = "project"
	KindStartup   MembershipKind = "startup"
)

// MembershipCache caches membership id sets per user.
type MembershipCache interface {
	Get(ctx context.Context, userID int64, kind MembershipKind) ([]int64, bool)
	Set(ctx context.Context, userID int64, kind MembershipKind, ids []int64)
	Invalidate(ctx context.Context, userID int64, kind MembershipKind)
}

// RedisMembershipCache is the redis implementation of MembershipCache.
// Cache failures are logged and treated as misses, never surfaced to callers.
type RedisMembershipCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisMembershipCache creates a RedisMembershipCache.
func NewRedisMembershipCache(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisMembershipCache {
	return &RedisMembershipCache{rdb: rdb, ttl: ttl, logger: logger}
}

func membershipKey(userID int64, kind MembershipKind) string {
	return fmt.Sprintf("memberships:%s:%d", kind, userID)
}

// Get returns the cached id set for a user, or a miss.
func (c *RedisMembershipCache) Get(ctx context.Context, userID int64, kind MembershipKind) ([]int64, bool) {
	raw, err := c.rdb.Get(ctx, membershipKey(userID, kind)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Int64("userID", userID).Str("kind", string(kind)).Msg("Membership cache read failed")
		}
		return nil, false
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Str("kind", string(kind)).Msg("Membership cache entry corrupt, dropping")
		c.Invalidate(ctx, userID, kind)
		return nil, false
	}

	return ids, true
}

// Set stores the id set for a user. An empty slice is a valid value and is
// cached too, so non-members don't hit the database on every refresh.
func (c *RedisMembershipCache) Set(ctx context.Context, userID int64, kind MembershipKind, ids []int64) {
	if ids == nil {
		ids = []int64{}
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Str("kind", string(kind)).Msg("Failed to marshal membership set")
		return
	}

	if err := c.rdb.Set(ctx, membershipKey(userID, kind), raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Str("kind", string(kind)).Msg("Membership cache write failed")
	}
}

// Invalidate drops the cached id set for a user.
func (c *RedisMembershipCache) Invalidate(ctx context.Context, userID int64, kind MembershipKind) {
	if err := c.rdb.Del(ctx, membershipKey(userID, kind)).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Str("kind", string(kind)).Msg("Membership cache invalidation failed")
	}
}

// NoopMembershipCache is used when no redis address is configured.
type NoopMembershipCache struct{}

func (NoopMembershipCache) Get(context.Context, int64, MembershipKind) ([]int64, bool) { return nil, false }
func (NoopMembershipCache) Set(context.Context, int64, MembershipKind, []int64)        {}
func (NoopMembershipCache) Invalidate(context.Context, int64, MembershipKind)          {}
