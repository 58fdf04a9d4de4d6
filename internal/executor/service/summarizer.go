package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang-finance-insight/internal/executor/repository"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/utils"
)

const maxKeywords = 10

// SummaryOutcome is the synopsis of a corpus. Degraded is set when the model call or its parsing failed.
type SummaryOutcome struct {
	Summary  string
	Keywords []string
	Degraded bool
}

// SummaryExtractor never returns an error; failures come back as a degraded, empty outcome.
type SummaryExtractor interface {
	Extract(ctx context.Context, texts []string) SummaryOutcome
}

type summaryExtractor struct {
	summarizer repository.TextSummarizer
	maxChars   int
	log        *logger.Logger
}

func NewSummaryExtractor(summarizer repository.TextSummarizer, maxChars int, log *logger.Logger) SummaryExtractor {
	if maxChars <= 0 {
		maxChars = 12000
	}
	return &summaryExtractor{summarizer: summarizer, maxChars: maxChars, log: log}
}

func (s *summaryExtractor) Extract(ctx context.Context, texts []string) SummaryOutcome {
	if len(texts) == 0 {
		return SummaryOutcome{Keywords: []string{}}
	}

	capped := CapCorpus(texts, s.maxChars)
	result, err := s.summarizer.Summarize(ctx, capped)
	if err != nil || result == nil {
		s.log.Warn("Summarization failed, using generic summary",
			logger.Field("error", errString(err)),
			logger.IntField("texts", len(capped)))
		return SummaryOutcome{Keywords: []string{}, Degraded: true}
	}

	return SummaryOutcome{
		Summary:  strings.TrimSpace(result.Summary),
		Keywords: cleanKeywords(result.Keywords),
	}
}

// CapCorpus keeps leading texts while their newline-joined length stays within maxChars runes.
// The text that crosses the limit is cut.
func CapCorpus(texts []string, maxChars int) []string {
	out := make([]string, 0, len(texts))
	used := 0
	for _, t := range texts {
		sep := 0
		if len(out) > 0 {
			sep = 1
		}
		remaining := maxChars - used - sep
		if remaining <= 0 {
			break
		}
		n := utf8.RuneCountInString(t)
		if n > remaining {
			out = append(out, utils.Truncate(t, remaining))
			break
		}
		out = append(out, t)
		used += sep + n
	}
	return out
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}
