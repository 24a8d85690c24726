package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nghiakieran/ute-shop-sub000/internal/provider"
)

// tokenBucketScript refills and drains one bucket in a single Redis call, so
// concurrent requests against the same key cannot both spend the last token.
const tokenBucketScript = `
	local bucket_key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local requested = tonumber(ARGV[4])
	local ttl = math.ceil(tonumber(ARGV[5]))

	local state = redis.call("HGETALL", bucket_key)
	local tokens
	local last_refill

	if #state == 0 then
		tokens = capacity
		last_refill = now
	else
		for i = 1, #state, 2 do
			if state[i] == "tokens" then
				tokens = tonumber(state[i+1])
			elseif state[i] == "last_refill" then
				last_refill = tonumber(state[i+1])
			end
		end

		tokens = tokens + (now - last_refill) * rate
		last_refill = now
		if tokens > capacity then
			tokens = capacity
		end
	end

	if tokens < requested then
		return 0
	end

	tokens = tokens - requested
	redis.call("HSET", bucket_key, "tokens", tokens, "last_refill", last_refill)
	redis.call("EXPIRE", bucket_key, ttl)
	return 1
`

// RedisRateLimiter is a distributed token bucket. All replicas of the server
// share the same buckets through Redis.
type RedisRateLimiter struct {
	client     *redis.Client
	namespace  provider.RedisNamespace
	rate       float64
	capacity   float64
	expiration time.Duration
	script     *redis.Script
}

// NewRedisRateLimiter creates a limiter refilling rate tokens per second into
// a bucket of the given capacity. Idle buckets expire after expiration.
func NewRedisRateLimiter(client *redis.Client, ns provider.RedisNamespace, rate float64, capacity float64, expiration time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:     client,
		namespace:  ns,
		rate:       rate,
		capacity:   capacity,
		expiration: expiration,
		script:     redis.NewScript(tokenBucketScript),
	}
}

// Allow spends one token from the identifier's bucket. It reports false when
// the bucket is empty.
func (l *RedisRateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	key := fmt.Sprintf("%sratelimit:%s", l.namespace, identifier)
	now := float64(time.Now().UnixNano()) / 1e9

	result, err := l.script.Run(ctx, l.client, []string{key},
		l.rate, l.capacity, now, 1.0, l.expiration.Seconds()).Result()
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit script: %w", err)
	}

	return result == int64(1), nil
}
