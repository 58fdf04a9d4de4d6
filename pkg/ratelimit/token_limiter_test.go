package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiter_WaitWithinBudget(t *testing.T) {
	l := NewTokenLimiter(600)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, l.Wait(ctx, 100))
	require.NoError(t, l.Wait(ctx, 100))
	assert.LessOrEqual(t, l.GetRemaining(), 400)
}

func TestTokenLimiter_ClampsOversizedRequest(t *testing.T) {
	l := NewTokenLimiter(60)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, l.Wait(ctx, 10_000))
}

func TestTokenLimiter_CancelledContext(t *testing.T) {
	l := NewTokenLimiter(60)

	ctx := context.Background()
	require.NoError(t, l.Wait(ctx, 60))

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, l.Wait(cctx, 30))
}

func TestTokenLimiter_Unlimited(t *testing.T) {
	l := NewTokenLimiter(0)

	assert.NoError(t, l.Wait(context.Background(), 1_000_000))
	assert.Equal(t, -1, l.GetRemaining())
}
