// Package ratelimiter throttles upstream calls with a token bucket kept in
// Redis, so concurrent seed runs sharing one provider quota draw from the same
// bucket.
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a call of the given cost may proceed now.
type Limiter interface {
	Allow(ctx context.Context, key string, cost int64) (allowed bool, retryAfter time.Duration, err error)
}

// BucketConfig sizes one token bucket.
type BucketConfig struct {
	Capacity   int64
	RefillRate float64 // tokens per second
}

// NewBucketConfigFromPerMinute returns a bucket that admits perMinute calls per minute.
func NewBucketConfigFromPerMinute(perMinute int) BucketConfig {
	if perMinute <= 0 {
		return BucketConfig{}
	}
	return BucketConfig{
		Capacity:   int64(perMinute),
		RefillRate: float64(perMinute) / 60.0,
	}
}

// RedisLimiter is a Limiter backed by a Lua token-bucket script.
// Keys without a bucket are never throttled.
type RedisLimiter struct {
	redis   *redis.Client
	buckets map[string]BucketConfig
	script  *redis.Script
	mu      sync.RWMutex
}

var _ Limiter = (*RedisLimiter)(nil)

// New returns a limiter; a nil client yields nil, which allows everything.
func New(rdb *redis.Client, buckets map[string]BucketConfig) *RedisLimiter {
	if rdb == nil {
		return nil
	}
	if buckets == nil {
		buckets = map[string]BucketConfig{}
	}
	return &RedisLimiter{
		redis:   rdb,
		buckets: buckets,
		script:  redis.NewScript(tokenBucketScript),
	}
}

// NewFromURL connects to the Redis at url (redis://host:port/db).
func NewFromURL(url string, buckets map[string]BucketConfig) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=ratelimiter.NewFromURL: %w", err)
	}
	return New(redis.NewClient(opts), buckets), nil
}

// Close releases the Redis connection.
func (l *RedisLimiter) Close() error {
	if l == nil || l.redis == nil {
		return nil
	}
	return l.redis.Close()
}

const tokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])

local tokens = capacity
local last_refill = now

local data = redis.call("HMGET", key, "tokens", "last_refill")
if data[1] ~= false and data[1] ~= nil then
  tokens = tonumber(data[1])
end
if data[2] ~= false and data[2] ~= nil then
  last_refill = tonumber(data[2])
end

local delta = now - last_refill
if delta < 0 then
  delta = 0
end

tokens = math.min(capacity, tokens + delta * refill_rate)

local allowed = 0
local retry_after = 0
if tokens >= cost then
  tokens = tokens - cost
  allowed = 1
elseif refill_rate > 0 then
  retry_after = (cost - tokens) / refill_rate
end

redis.call("HMSET", key, "tokens", tokens, "last_refill", now)
redis.call("EXPIRE", key, math.ceil(capacity / math.max(refill_rate, 0.000001)) + 60)

return { allowed, tostring(retry_after) }
`

// Allow takes cost tokens from the bucket of key if it holds enough. It fails
// open on Redis errors and returns the error for logging.
func (l *RedisLimiter) Allow(ctx context.Context, key string, cost int64) (bool, time.Duration, error) {
	if l == nil || l.redis == nil {
		return true, 0, nil
	}
	l.mu.RLock()
	cfg, ok := l.buckets[key]
	l.mu.RUnlock()
	if !ok || cfg.Capacity <= 0 || cfg.RefillRate <= 0 {
		return true, 0, nil
	}
	if cost <= 0 {
		cost = 1
	}

	nowSec := float64(time.Now().UnixNano()) / 1e9
	res, err := l.script.Run(ctx, l.redis, []string{"rate:" + key}, cfg.Capacity, cfg.RefillRate, nowSec, cost).Result()
	if err != nil {
		return true, 0, fmt.Errorf("op=ratelimiter.Allow: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) < 2 {
		slog.Error("rate limiter unexpected script result", slog.String("key", key), slog.Any("result", res))
		return true, 0, nil
	}
	allowed := toInt64(vals[0]) == 1
	sec := toFloat64(vals[1])
	if math.IsNaN(sec) || sec < 0 {
		sec = 0
	}
	return allowed, time.Duration(sec * float64(time.Second)), nil
}

// SetBucketConfig adds or replaces the bucket of key.
func (l *RedisLimiter) SetBucketConfig(key string, cfg BucketConfig) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buckets == nil {
		l.buckets = map[string]BucketConfig{}
	}
	l.buckets[key] = cfg
}

// Wait blocks until lim admits a call of cost on key or ctx ends. A nil
// limiter never blocks; limiter errors are logged and the call proceeds.
func Wait(ctx context.Context, lim Limiter, key string, cost int64) error {
	if lim == nil {
		return nil
	}
	for {
		allowed, retryAfter, err := lim.Allow(ctx, key, cost)
		if err != nil {
			slog.Warn("rate limiter unavailable, proceeding", slog.String("key", key), slog.Any("error", err))
			return nil
		}
		if allowed {
			return nil
		}
		if retryAfter <= 0 {
			retryAfter = 100 * time.Millisecond
		}
		t := time.NewTimer(retryAfter)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}

// toFloat64 accepts the string form the script returns for fractional values;
// Redis truncates Lua numbers to integers.
func toFloat64(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case string:
		var f float64
		if _, err := fmt.Sscan(t, &f); err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
