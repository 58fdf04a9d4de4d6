package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"golang-finance-insight/internal/entity"
	"golang-finance-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramRunHook(t *testing.T) {
	done := RunOutcome{
		AnalysisID:  7,
		CompanyName: "Samsung Electronics",
		StockCode:   "005930",
		Status:      entity.AnalysisStatusDone,
		Summary:     "Upbeat on chips.",
		Stats:       entity.SentimentStats{Positive: 2, Negative: 1},
		FinishedAt:  fixedNow(),
	}
	notFound := RunOutcome{
		AnalysisID:  8,
		CompanyName: "Nonexistent Corp",
		Status:      entity.AnalysisStatusFailed,
		Err:         fmt.Errorf("%w: Nonexistent Corp", ErrCompanyNotFound),
		FinishedAt:  fixedNow(),
	}
	transient := RunOutcome{AnalysisID: 9, Status: entity.AnalysisStatusFailed, Err: errors.New("timeout")}

	t.Run("success digest only when enabled", func(t *testing.T) {
		n := &stubNotifier{}
		NewTelegramRunHook(n, false, logger.NewNop()).AfterRun(context.Background(), done)
		assert.Empty(t, n.messages)

		NewTelegramRunHook(n, true, logger.NewNop()).AfterRun(context.Background(), done)
		require.Len(t, n.messages, 1)
		assert.Contains(t, n.messages[0], "Samsung Electronics")
		assert.Contains(t, n.messages[0], "Upbeat on chips.")
	})

	t.Run("company not found always alerts", func(t *testing.T) {
		n := &stubNotifier{}
		NewTelegramRunHook(n, false, logger.NewNop()).AfterRun(context.Background(), notFound)
		require.Len(t, n.messages, 1)
		assert.Contains(t, n.messages[0], "company not found: Nonexistent Corp")
	})

	t.Run("transient failures stay quiet", func(t *testing.T) {
		n := &stubNotifier{}
		NewTelegramRunHook(n, true, logger.NewNop()).AfterRun(context.Background(), transient)
		assert.Empty(t, n.messages)
	})
}
