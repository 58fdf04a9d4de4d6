package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-finance-insight/internal/executor/dto"
	"golang-finance-insight/pkg/utils"

	"golang.org/x/time/rate"
)

func newRequestLimiter(maxPerMinute int) *rate.Limiter {
	if maxPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxPerMinute)), 1)
}

func joinCorpus(texts []string) string {
	return strings.Join(texts, "\n")
}

func parseClassification(raw string) ([]string, error) {
	var result dto.ClassificationResult
	if err := json.Unmarshal([]byte(utils.CleanJSONFence(raw)), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal classification: %w", err)
	}
	if result.Sentiments == nil {
		return nil, fmt.Errorf("classification response has no sentiments field")
	}
	return result.Sentiments, nil
}

func parseSummary(raw string) (*dto.SummaryResult, error) {
	var result dto.SummaryResult
	if err := json.Unmarshal([]byte(utils.CleanJSONFence(raw)), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	if result.Keywords == nil {
		result.Keywords = []string{}
	}
	return &result, nil
}
