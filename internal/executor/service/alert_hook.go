package service

import (
	"context"
	"errors"
	"fmt"

	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/telegram"
)

type telegramRunHook struct {
	notifier        telegram.Notifier
	notifyOnSuccess bool
	log             *logger.Logger
}

// NewTelegramRunHook posts finished runs to Telegram. Transient failures are left to the retry
// loop, which alerts once the retry budget is spent.
func NewTelegramRunHook(notifier telegram.Notifier, notifyOnSuccess bool, log *logger.Logger) PostRunHook {
	return &telegramRunHook{notifier: notifier, notifyOnSuccess: notifyOnSuccess, log: log}
}

func (h *telegramRunHook) AfterRun(_ context.Context, outcome RunOutcome) {
	var msg string
	switch {
	case outcome.Err != nil && errors.Is(outcome.Err, ErrCompanyNotFound):
		msg = telegram.FormatErrorAlertMessage(outcome.FinishedAt, "Company not found", outcome.Err.Error(),
			fmt.Sprintf("analysis_id=%d company=%s", outcome.AnalysisID, outcome.CompanyName))
	case outcome.Err != nil:
		return
	case h.notifyOnSuccess:
		msg = telegram.FormatAnalysisDigest(telegram.AnalysisDigest{
			CompanyName: outcome.CompanyName,
			StockCode:   outcome.StockCode,
			Summary:     outcome.Summary,
			Keywords:    outcome.Keywords,
			Positive:    outcome.Stats.Positive,
			Negative:    outcome.Stats.Negative,
			Neutral:     outcome.Stats.Neutral,
			FinishedAt:  outcome.FinishedAt,
		})
	default:
		return
	}

	if err := h.notifier.SendMessage(msg); err != nil {
		h.log.Error("Failed to send telegram run notification", logger.ErrorField(err), logger.UintField("analysis_id", outcome.AnalysisID))
	}
}
