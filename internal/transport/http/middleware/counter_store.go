package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const sweepThreshold = 10000

// CounterStore counts hits per key inside a fixed window. Increment returns the count
// including this hit and the time until the window resets.
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int, time.Duration, error)
}

type rateBucket struct {
	count int
	reset time.Time
}

type MemoryCounter struct {
	mu      sync.Mutex
	clients map[string]*rateBucket
	now     func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{clients: map[string]*rateBucket{}, now: time.Now}
}

func (m *MemoryCounter) Increment(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.clients) > sweepThreshold {
		for k, b := range m.clients {
			if now.After(b.reset) {
				delete(m.clients, k)
			}
		}
	}

	bucket, ok := m.clients[key]
	if !ok || now.After(bucket.reset) {
		bucket = &rateBucket{count: 0, reset: now.Add(window)}
		m.clients[key] = bucket
	}
	bucket.count++
	return bucket.count, bucket.reset.Sub(now), nil
}

// RedisCounter keeps fixed-window counters in Redis so every instance shares one budget.
type RedisCounter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisCounter(client redis.UniversalClient) *RedisCounter {
	return &RedisCounter{client: client, prefix: "taxdesk:ratelimit:"}
}

func (c *RedisCounter) Increment(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	fullKey := c.prefix + key
	count, err := c.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, 0, errors.Wrap(err, "redis incr")
	}
	if count == 1 {
		if err := c.client.PExpire(ctx, fullKey, window).Err(); err != nil {
			return 0, 0, errors.Wrap(err, "redis pexpire")
		}
		return 1, window, nil
	}

	ttl, err := c.client.PTTL(ctx, fullKey).Result()
	if err != nil {
		return 0, 0, errors.Wrap(err, "redis pttl")
	}
	if ttl < 0 {
		// Counter lost its expiry; restart the window rather than block forever.
		if err := c.client.PExpire(ctx, fullKey, window).Err(); err != nil {
			return 0, 0, errors.Wrap(err, "redis pexpire")
		}
		ttl = window
	}
	return int(count), ttl, nil
}
