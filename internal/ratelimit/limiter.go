package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Defaults for the fixed window applied per IP and purpose
const (
	defaultLimit  = 10
	defaultWindow = time.Minute
)

// Limiter is a fixed-window per-IP rate limiter backed by Redis.
// Counters expire with the window, so no cleanup is needed.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{
		client: client,
		limit:  defaultLimit,
		window: defaultWindow,
	}
}

func getIPKey(ip, purpose string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, ip)
}

// CheckIPRateLimitWithPurpose reports whether the IP has exhausted its
// request budget for the given purpose within the current window.
func (l *Limiter) CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	count, err := l.client.Get(ctx, getIPKey(ip, purpose)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return count >= l.limit, nil
}

// RecordIPRequestWithPurpose counts a request against the IP's budget.
// The window TTL is set when the counter is first created.
func (l *Limiter) RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error {
	key := getIPKey(ip, purpose)

	pipe := l.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}

	return nil
}
