package visitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// BadgeIssuer hands out badge numbers that restart every day.
type BadgeIssuer interface {
	Next(ctx context.Context, day time.Time) (string, error)
}

func formatBadge(n int64) string {
	return fmt.Sprintf("B%03d", n)
}

// RedisBadges keeps one INCR counter per calendar day.
type RedisBadges struct {
	client *redis.Client
	prefix string
}

// NewRedisBadges creates a Redis-backed issuer.
func NewRedisBadges(client *redis.Client) *RedisBadges {
	return &RedisBadges{client: client, prefix: "frontdesk:badge:"}
}

// Next increments the day's counter. The key outlives the day so late check-outs can still be correlated.
func (b *RedisBadges) Next(ctx context.Context, day time.Time) (string, error) {
	key := b.prefix + day.Format("2006-01-02")
	n, err := b.client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("badge counter: %w", err)
	}
	if n == 1 {
		if err := b.client.Expire(ctx, key, 48*time.Hour).Err(); err != nil {
			return "", fmt.Errorf("badge counter ttl: %w", err)
		}
	}
	return formatBadge(n), nil
}

// MemoryBadges is the in-process issuer used in demo mode.
type MemoryBadges struct {
	mu  sync.Mutex
	day string
	n   int64
}

func (b *MemoryBadges) Next(_ context.Context, day time.Time) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := day.Format("2006-01-02")
	if key != b.day {
		b.day = key
		b.n = 0
	}
	b.n++
	return formatBadge(b.n), nil
}
