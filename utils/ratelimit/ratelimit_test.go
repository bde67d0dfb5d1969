package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

// TestTokenBucketLimiter_Allow tests basic rate limiting functionality
func TestTokenBucketLimiter_Allow(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	ctx := context.Background()
	key := "share:profile:123"
	limit := 5
	window := time.Minute

	// First 5 requests should be allowed
	for i := range limit {
		allowed, err := limiter.Allow(ctx, key, limit, window)
		assert.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	// 6th request should be denied
	allowed, err := limiter.Allow(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.False(t, allowed, "request should be denied after limit exceeded")
}

// TestTokenBucketLimiter_AllowN tests consuming multiple tokens at once
func TestTokenBucketLimiter_AllowN(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	ctx := context.Background()
	key := "api:profile:456"
	limit := 10
	window := time.Minute

	allowed, err := limiter.AllowN(ctx, key, 3, limit, window)
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.AllowN(ctx, key, 7, limit, window)
	assert.NoError(t, err)
	assert.True(t, allowed)

	// Bucket is exhausted now
	allowed, err = limiter.AllowN(ctx, key, 1, limit, window)
	assert.NoError(t, err)
	assert.False(t, allowed)
}

// TestTokenBucketLimiter_Reset tests resetting rate limits
func TestTokenBucketLimiter_Reset(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	ctx := context.Background()
	key := "signin:profile:789"
	limit := 3
	window := time.Minute

	// Exhaust the limit
	for range limit {
		allowed, err := limiter.Allow(ctx, key, limit, window)
		assert.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.False(t, allowed)

	err = limiter.Reset(ctx, key)
	assert.NoError(t, err)

	// Should be able to make requests again
	allowed, err = limiter.Allow(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

// TestTokenBucketLimiter_GetRemaining tests getting remaining tokens
func TestTokenBucketLimiter_GetRemaining(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	ctx := context.Background()
	key := "api:profile:remaining"
	limit := 10
	window := time.Minute

	// Initially, all tokens should be available
	remaining, err := limiter.GetRemaining(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.Equal(t, limit, remaining)

	allowed, err := limiter.AllowN(ctx, key, 4, limit, window)
	assert.NoError(t, err)
	assert.True(t, allowed)

	remaining, err = limiter.GetRemaining(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.Equal(t, 6, remaining)
}

// TestTokenBucketLimiter_DifferentKeys tests that different keys have independent limits
func TestTokenBucketLimiter_DifferentKeys(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	ctx := context.Background()
	key1 := "share:profile:alice"
	key2 := "share:profile:bob"
	limit := 3
	window := time.Minute

	// Exhaust limit for key1
	for range limit {
		allowed, err := limiter.Allow(ctx, key1, limit, window)
		assert.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, key1, limit, window)
	assert.NoError(t, err)
	assert.False(t, allowed)

	// key2 should still be allowed (independent limit)
	for range limit {
		allowed, err := limiter.Allow(ctx, key2, limit, window)
		assert.NoError(t, err)
		assert.True(t, allowed)
	}
}

// TestTokenBucketLimiter_RateLimitRecovery tests that rate limits recover after the window expires
func TestTokenBucketLimiter_RateLimitRecovery(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	ctx := context.Background()
	key := "share:profile:recovery"
	limit := 3
	window := 2 * time.Second // Short window for testing

	for range limit {
		allowed, err := limiter.Allow(ctx, key, limit, window)
		assert.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.False(t, allowed)

	// Fast-forward time in miniredis
	mr.FastForward(window + time.Second)

	// Should be allowed again in new window
	allowed, err = limiter.Allow(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

// TestTokenBucketLimiter_FailOpen tests fail-open behavior when Redis is unavailable
func TestTokenBucketLimiter_FailOpen(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), true)

	ctx := context.Background()

	// Close Redis to simulate failure
	mr.Close()

	allowed, err := limiter.Allow(ctx, "api:profile:failopen", 5, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed, "should allow request when Redis fails with fail-open enabled")
}

// TestTokenBucketLimiter_FailClosed tests fail-closed behavior when Redis is unavailable
func TestTokenBucketLimiter_FailClosed(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	ctx := context.Background()

	mr.Close()

	allowed, err := limiter.Allow(ctx, "api:profile:failclosed", 5, time.Minute)
	assert.Error(t, err, "should return error when Redis fails with fail-open disabled")
	assert.False(t, allowed, "should deny request when Redis fails with fail-open disabled")
}

// TestGetRuleForEndpoint tests rate limit rule configuration
func TestGetRuleForEndpoint(t *testing.T) {
	config := &RateLimitConfig{
		SignUpPerMinute: 5,
		SignInPerMinute: 10,
		SharePerMinute:  6,
		APIPerMinute:    120,
	}

	tests := []struct {
		endpoint string
		expected RateLimitRule
	}{
		{
			endpoint: "signup",
			expected: RateLimitRule{Limit: 5, Window: time.Minute},
		},
		{
			endpoint: "signin",
			expected: RateLimitRule{Limit: 10, Window: time.Minute},
		},
		{
			endpoint: "share",
			expected: RateLimitRule{Limit: 6, Window: time.Minute},
		},
		{
			endpoint: "api",
			expected: RateLimitRule{Limit: 120, Window: time.Minute},
		},
		{
			endpoint: "unknown",
			expected: RateLimitRule{Limit: 100, Window: time.Minute}, // Default
		},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			rule := GetRuleForEndpoint(tt.endpoint, config)
			assert.Equal(t, tt.expected.Limit, rule.Limit)
			assert.Equal(t, tt.expected.Window, rule.Window)
		})
	}
}
