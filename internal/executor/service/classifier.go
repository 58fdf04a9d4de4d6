package service

import (
	"context"
	"strings"

	"golang-finance-insight/internal/executor/repository"
	"golang-finance-insight/pkg/common"
	"golang-finance-insight/pkg/logger"

	"golang.org/x/sync/errgroup"
)

var (
	positiveHints = []string{"😍", "👍", "good", "수익", "떡상", "🚀", "gain"}
	negativeHints = []string{"ㅠ", "ㅜ", "bad", "하락", "폭락", "-10%", "loss"}
)

// SentimentClassifier labels comment texts. It never fails: undecidable items become Neutral.
type SentimentClassifier interface {
	Classify(ctx context.Context, texts []string) []string
}

type sentimentClassifier struct {
	fallback       repository.TextClassifier
	batchSize      int
	maxConcurrency int
	log            *logger.Logger
}

func NewSentimentClassifier(fallback repository.TextClassifier, batchSize, maxConcurrency int, log *logger.Logger) SentimentClassifier {
	if batchSize <= 0 {
		batchSize = 20
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &sentimentClassifier{
		fallback:       fallback,
		batchSize:      batchSize,
		maxConcurrency: maxConcurrency,
		log:            log,
	}
}

// RuleSentiment checks the hint tokens. Positive hints are tested first.
func RuleSentiment(text string) (string, bool) {
	low := strings.ToLower(text)
	for _, h := range positiveHints {
		if strings.Contains(low, h) {
			return common.SentimentPositive, true
		}
	}
	for _, h := range negativeHints {
		if strings.Contains(low, h) {
			return common.SentimentNegative, true
		}
	}
	return "", false
}

func (c *sentimentClassifier) Classify(ctx context.Context, texts []string) []string {
	labels := make([]string, len(texts))
	var undecided []int
	for i, t := range texts {
		if l, ok := RuleSentiment(t); ok {
			labels[i] = l
			continue
		}
		undecided = append(undecided, i)
	}
	if len(undecided) == 0 {
		return labels
	}

	c.log.Debug("Rule tier finished",
		logger.IntField("total", len(texts)),
		logger.IntField("undecided", len(undecided)))

	var g errgroup.Group
	g.SetLimit(c.maxConcurrency)
	for start := 0; start < len(undecided); start += c.batchSize {
		end := start + c.batchSize
		if end > len(undecided) {
			end = len(undecided)
		}
		chunk := undecided[start:end]

		g.Go(func() error {
			batch := make([]string, len(chunk))
			for i, idx := range chunk {
				batch[i] = texts[idx]
			}

			result, err := c.fallback.Classify(ctx, batch)
			if err != nil || len(result) != len(batch) {
				c.log.Warn("Fallback classification unusable, labelling batch Neutral",
					logger.Field("error", errString(err)),
					logger.IntField("expected", len(batch)),
					logger.IntField("got", len(result)))
				for _, idx := range chunk {
					labels[idx] = common.SentimentNeutral
				}
				return nil
			}
			for i, idx := range chunk {
				labels[idx] = NormalizeLabel(result[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	return labels
}

// NormalizeLabel maps a model label onto Positive, Negative or Neutral.
func NormalizeLabel(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive", "긍정":
		return common.SentimentPositive
	case "negative", "부정":
		return common.SentimentNegative
	default:
		return common.SentimentNeutral
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
