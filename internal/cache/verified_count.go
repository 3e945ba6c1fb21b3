package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const verifiedCountKey = "accounts:verified_count"

// VerifiedCount keeps the system-wide verified-member count in Redis with a
// short TTL so the welcome page does not hit the database on every request.
type VerifiedCount struct {
	client *redis.Client
	ttl    time.Duration
}

func NewVerifiedCount(addr, password string, db int, ttl time.Duration) *VerifiedCount {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &VerifiedCount{client: client, ttl: ttl}
}

func (c *VerifiedCount) Get(ctx context.Context) (int64, bool) {
	val, err := c.client.Get(ctx, verifiedCountKey).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *VerifiedCount) Set(ctx context.Context, n int64) {
	// Cache writes are best effort; the store remains the source of truth.
	_ = c.client.Set(ctx, verifiedCountKey, n, c.ttl).Err()
}

// Noop satisfies account.CountCache when Redis is not configured.
type Noop struct{}

func (Noop) Get(ctx context.Context) (int64, bool) { return 0, false }
func (Noop) Set(ctx context.Context, n int64)      {}
