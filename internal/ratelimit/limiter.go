// Package ratelimit throttles abuse-prone public endpoints (contributions,
// vendor applications, login) per client IP.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter implements a sliding-window limiter over a Redis sorted set. A Lua
// script atomically evicts expired entries, checks the count and claims a
// slot, so concurrent requests cannot over-admit.
type Limiter struct {
	client *redis.Client
	logger *slog.Logger
	script *redis.Script
	window time.Duration
}

var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, member)
    redis.call('EXPIRE', key, window / 1000 + 1)
    return 1
else
    return 0
end
`)

// NewLimiter creates a limiter with the given sliding window.
func NewLimiter(client *redis.Client, logger *slog.Logger, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		logger: logger,
		script: slidingWindowScript,
		window: window,
	}
}

func limitKey(scope, subject string) string {
	return fmt.Sprintf("rl:%s:%s", scope, subject)
}

// Allow reports whether subject may perform one more action in scope within
// the window. limit <= 0 disables the check. Redis failures fail open: a
// broken limiter must not take the write path down with it.
func (l *Limiter) Allow(ctx context.Context, scope, subject string, limit int) bool {
	if limit <= 0 {
		return true
	}

	now := time.Now().UnixMilli()
	member := fmt.Sprintf("%d:%d", now, time.Now().UnixNano()%10000)

	result, err := l.script.Run(ctx, l.client, []string{limitKey(scope, subject)},
		now, l.window.Milliseconds(), limit, member,
	).Int64()
	if err != nil {
		l.logger.Error("rate limiter script failed", "error", err, "scope", scope)
		return true
	}

	if result == 0 {
		l.logger.Debug("rate limited", "scope", scope, "subject", subject, "limit", limit)
		return false
	}
	return true
}
