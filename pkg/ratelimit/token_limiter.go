package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenLimiter bounds the number of model tokens spent per minute.
type TokenLimiter struct {
	limiter *rate.Limiter
	max     int
}

// NewTokenLimiter allows maxPerMinute tokens per minute with a full bucket at start.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	if maxPerMinute <= 0 {
		return &TokenLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &TokenLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60.0), maxPerMinute),
		max:     maxPerMinute,
	}
}

// Wait blocks until tokens are available or ctx is done.
// Requests larger than the bucket are clamped to the bucket size.
func (t *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if t.max == 0 {
		return ctx.Err()
	}
	if tokens > t.max {
		tokens = t.max
	}
	if tokens <= 0 {
		return nil
	}
	return t.limiter.WaitN(ctx, tokens)
}

// GetRemaining reports the tokens currently available.
func (t *TokenLimiter) GetRemaining() int {
	if t.max == 0 {
		return -1
	}
	return int(t.limiter.Tokens())
}
