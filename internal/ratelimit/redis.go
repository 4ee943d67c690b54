package ratelimit

import (
	"context"
	"fmt"
	"time"

	"portfolio-contact-api/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = window in milliseconds
// Returns: [current_count, pttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {count, ttl}
`

// RedisLimiter shares counters across instances. The key expires with the window, so the
// first call after expiry starts a new window at count 1.
type RedisLimiter struct {
	client    goredis.Scripter
	script    *goredis.Script
	limit     int
	window    time.Duration
	keyPrefix string
}

func NewRedisLimiter(client goredis.Scripter, limit int, window time.Duration, keyPrefix string) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		script:    goredis.NewScript(rateLimitLuaScript),
		limit:     limit,
		window:    window,
		keyPrefix: keyPrefix,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (domain.RateDecision, error) {
	result, err := l.script.Run(ctx, l.client, []string{l.keyPrefix + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return domain.RateDecision{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	count, ttl, err := parseScriptResult(result)
	if err != nil {
		return domain.RateDecision{}, err
	}
	if ttl < 0 {
		ttl = l.window.Milliseconds()
	}

	return domain.RateDecision{
		Allowed: int(count) <= l.limit,
		Count:   int(count),
		Limit:   l.limit,
		ResetAt: time.Now().Add(time.Duration(ttl) * time.Millisecond),
	}, nil
}

func (l *RedisLimiter) Backend() string {
	return "redis"
}

// parseScriptResult parses the [count, ttl] pair returned by the script
func parseScriptResult(result interface{}) (int64, int64, error) {
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, 0, fmt.Errorf("unexpected redis result format")
	}

	count, ok := arr[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected redis count type %T", arr[0])
	}
	ttl, _ := arr[1].(int64)

	return count, ttl, nil
}
