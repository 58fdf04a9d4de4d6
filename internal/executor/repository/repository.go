package repository

import (
	"context"

	"golang-finance-insight/internal/executor/dto"
)

// TextClassifier labels each text as Positive, Negative or Neutral.
// The result has one label per input unless an error is returned.
type TextClassifier interface {
	Classify(ctx context.Context, texts []string) ([]string, error)
}

// TextSummarizer produces a synopsis and keywords for a comment corpus.
type TextSummarizer interface {
	Summarize(ctx context.Context, texts []string) (*dto.SummaryResult, error)
}

// AIRepository is a generative-text provider able to serve both tasks.
type AIRepository interface {
	TextClassifier
	TextSummarizer
}
