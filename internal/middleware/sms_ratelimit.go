package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// SMSRateLimitConfig holds configuration for review-request SMS rate limiting
type SMSRateLimitConfig struct {
	// Per-tenant limits
	TenantHourlyLimit int // Max review-request SMS per hour per tenant (default: 100)
	TenantDailyLimit  int // Max review-request SMS per day per tenant (default: 500)

	// Per-recipient limits. A customer should never be nagged for reviews.
	RecipientDailyLimit int // Max review-request SMS per day to one phone (default: 1)

	// Redis settings
	RedisKeyPrefix string // Prefix for Redis keys (default: "sms:ratelimit:")
}

// DefaultSMSRateLimitConfig returns sensible defaults
func DefaultSMSRateLimitConfig() SMSRateLimitConfig {
	return SMSRateLimitConfig{
		TenantHourlyLimit:   100,
		TenantDailyLimit:    500,
		RecipientDailyLimit: 1,
		RedisKeyPrefix:      "sms:ratelimit:",
	}
}

// SMSRateLimiter handles rate limiting for review-request SMS sends. Checks
// fail open: a Redis outage must not block sends, because the limiter is a
// courtesy guard, not a correctness requirement.
type SMSRateLimiter struct {
	config      SMSRateLimitConfig
	redisClient *redis.Client
	logger      *logrus.Entry

	// In-memory fallback when Redis is unavailable
	localCounts map[string]*localCounter
	localMu     sync.Mutex
}

type localCounter struct {
	count     int
	expiresAt time.Time
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool   `json:"allowed"`
	LimitType string `json:"limit_type"` // Which limit was exceeded
	Remaining int    `json:"remaining"`
}

// NewSMSRateLimiter creates a new SMS rate limiter
func NewSMSRateLimiter(redisClient *redis.Client, logger *logrus.Logger) *SMSRateLimiter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &SMSRateLimiter{
		config:      DefaultSMSRateLimitConfig(),
		redisClient: redisClient,
		logger:      logger.WithField("component", "sms_rate_limiter"),
		localCounts: make(map[string]*localCounter),
	}
}

// NewSMSRateLimiterWithConfig creates a new SMS rate limiter with custom config
func NewSMSRateLimiterWithConfig(redisClient *redis.Client, logger *logrus.Logger, config SMSRateLimitConfig) *SMSRateLimiter {
	limiter := NewSMSRateLimiter(redisClient, logger)
	limiter.config = config
	return limiter
}

// CheckLimit checks if a review-request SMS to recipient is allowed
func (r *SMSRateLimiter) CheckLimit(ctx context.Context, clientID, recipient string) (*RateLimitResult, error) {
	checks := []struct {
		key       string
		limit     int
		window    time.Duration
		limitType string
	}{
		{fmt.Sprintf("recipient:%s:%s:day", clientID, recipient), r.config.RecipientDailyLimit, 24 * time.Hour, "recipient_daily"},
		{fmt.Sprintf("tenant:%s:hour", clientID), r.config.TenantHourlyLimit, time.Hour, "tenant_hourly"},
		{fmt.Sprintf("tenant:%s:day", clientID), r.config.TenantDailyLimit, 24 * time.Hour, "tenant_daily"},
	}

	for _, check := range checks {
		if check.limit <= 0 {
			continue
		}
		count, err := r.currentCount(ctx, check.key, check.window)
		if err != nil {
			// Fail open
			r.logger.Warnf("Rate limit check failed for %s: %v", check.key, err)
			continue
		}
		if count >= check.limit {
			return &RateLimitResult{
				Allowed:   false,
				LimitType: check.limitType,
				Remaining: 0,
			}, nil
		}
	}

	return &RateLimitResult{Allowed: true}, nil
}

// RecordSend records a successful send against all counters
func (r *SMSRateLimiter) RecordSend(ctx context.Context, clientID, recipient string) error {
	keys := []struct {
		key    string
		window time.Duration
	}{
		{fmt.Sprintf("recipient:%s:%s:day", clientID, recipient), 24 * time.Hour},
		{fmt.Sprintf("tenant:%s:hour", clientID), time.Hour},
		{fmt.Sprintf("tenant:%s:day", clientID), 24 * time.Hour},
	}

	for _, k := range keys {
		if err := r.increment(ctx, k.key, k.window); err != nil {
			r.logger.Warnf("Failed to record send for %s: %v", k.key, err)
		}
	}
	return nil
}

func (r *SMSRateLimiter) currentCount(ctx context.Context, key string, window time.Duration) (int, error) {
	if r.redisClient == nil {
		return r.localCount(key), nil
	}

	count, err := r.redisClient.Get(ctx, r.config.RedisKeyPrefix+key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return r.localCount(key), nil
	}
	return count, nil
}

func (r *SMSRateLimiter) increment(ctx context.Context, key string, window time.Duration) error {
	if r.redisClient == nil {
		r.localIncrement(key, window)
		return nil
	}

	fullKey := r.config.RedisKeyPrefix + key
	pipe := r.redisClient.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		r.localIncrement(key, window)
		return err
	}
	_ = incr
	return nil
}

func (r *SMSRateLimiter) localCount(key string) int {
	r.localMu.Lock()
	defer r.localMu.Unlock()

	state, ok := r.localCounts[key]
	if !ok || time.Now().After(state.expiresAt) {
		return 0
	}
	return state.count
}

func (r *SMSRateLimiter) localIncrement(key string, window time.Duration) {
	r.localMu.Lock()
	defer r.localMu.Unlock()

	state, ok := r.localCounts[key]
	if !ok || time.Now().After(state.expiresAt) {
		r.localCounts[key] = &localCounter{count: 1, expiresAt: time.Now().Add(window)}
		return
	}
	state.count++
}
