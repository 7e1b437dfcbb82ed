package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucketLimiter implements RateLimiter with in-process token buckets.
// It serves single-instance deployments where Redis is not configured;
// counters are not shared across replicas.
type TokenBucketLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// NewTokenBucketLimiter creates a new TokenBucketLimiter
func NewTokenBucketLimiter() *TokenBucketLimiter {
	// TODO: evict buckets that stay idle for longer than a full refill window
	return &TokenBucketLimiter{buckets: make(map[string]*bucket)}
}

// Allow checks if the request is allowed
func (l *TokenBucketLimiter) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return &Result{Allowed: true, Remaining: limit.Burst}, nil
	}

	burst := limit.Burst
	if burst <= 0 {
		burst = limit.Rate
	}
	ratePerSec := float64(limit.Rate) / limit.Period.Seconds()

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(burst), lastRefill: now}
		l.buckets[key] = b
	} else {
		elapsed := now.Sub(b.lastRefill).Seconds()
		b.tokens = min(float64(burst), b.tokens+elapsed*ratePerSec)
		b.lastRefill = now
	}

	if b.tokens < 1 {
		missing := 1 - b.tokens
		return &Result{
			Allowed:    false,
			Remaining:  0,
			ResetAfter: refillTime(float64(burst)-b.tokens, ratePerSec),
			RetryAfter: refillTime(missing, ratePerSec),
		}, nil
	}

	b.tokens--
	return &Result{
		Allowed:    true,
		Remaining:  int(b.tokens),
		ResetAfter: refillTime(float64(burst)-b.tokens, ratePerSec),
	}, nil
}

// refillTime 回填 tokens 个令牌所需的时间
func refillTime(tokens, ratePerSec float64) time.Duration {
	return time.Duration(tokens / ratePerSec * float64(time.Second))
}
