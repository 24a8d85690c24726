package limiter

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
	"github.com/nghiakieran/ute-shop-sub000/internal/provider"
)

const defaultPolicyName = "default"

// Manager holds the named rate limiters built from configuration. Routes ask
// for a policy by name; unknown names fall back to the default policy.
type Manager struct {
	limiters map[string]*RedisRateLimiter
}

// NewManager builds one limiter per configured policy plus the default.
func NewManager(cfg *conf.RateLimiterConfig, redisClient *redis.Client, ns provider.RedisNamespace) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("rate limiter config is nil")
	}

	limiters := make(map[string]*RedisRateLimiter, len(cfg.Policies)+1)

	build := func(policy conf.RateLimiterPolicy) (*RedisRateLimiter, error) {
		if policy.Limit <= 0 {
			return nil, fmt.Errorf("policy limit must be positive")
		}
		interval, err := time.ParseDuration(policy.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid policy interval format: %w", err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("policy interval must be positive")
		}

		rate := float64(policy.Limit) / interval.Seconds()
		capacity := float64(policy.Limit)
		// Idle buckets outlive one full interval before Redis drops them.
		return NewRedisRateLimiter(redisClient, ns, rate, capacity, interval*2), nil
	}

	defaultLimiter, err := build(cfg.Default)
	if err != nil {
		return nil, fmt.Errorf("failed to create default rate limiter: %w", err)
	}
	limiters[defaultPolicyName] = defaultLimiter

	for name, policy := range cfg.Policies {
		limiter, err := build(policy)
		if err != nil {
			return nil, fmt.Errorf("failed to create policy '%s': %w", name, err)
		}
		limiters[name] = limiter
	}

	return &Manager{limiters: limiters}, nil
}

// Get returns the named limiter, or the default limiter when no policy with
// that name is configured.
func (m *Manager) Get(name string) *RedisRateLimiter {
	if limiter, ok := m.limiters[name]; ok {
		return limiter
	}
	return m.limiters[defaultPolicyName]
}
