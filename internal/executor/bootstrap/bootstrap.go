// Package bootstrap wires the sentiment pipeline from configuration. It is shared by the
// execution service and by the API service when it runs analyses inline.
package bootstrap

import (
	"context"
	"fmt"

	"golang-finance-insight/internal/executor/config"
	"golang-finance-insight/internal/executor/repository"
	"golang-finance-insight/internal/executor/service"
	pkgconfig "golang-finance-insight/pkg/config"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/telegram"

	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// NewAIRepository builds the generative text provider selected by ai.provider.
func NewAIRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.AIRepository, error) {
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		return repository.NewGeminiAIRepository(cfg, log, genAiClient), nil
	case "openai":
		return repository.NewOpenAIRepository(cfg, log), nil
	default:
		return nil, fmt.Errorf("invalid AI provider %q", cfg.AI.Provider)
	}
}

// NewNotifier returns a Telegram notifier, or a no-op one when alerts are disabled.
func NewNotifier(cfg pkgconfig.Telegram, log *logger.Logger) (telegram.Notifier, error) {
	if !cfg.Enabled {
		log.Info("Telegram alerts disabled")
		return telegram.NewNopNotifier(), nil
	}
	notifier, err := telegram.NewClient(cfg.BotToken, cfg.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram notifier: %w", err)
	}
	return notifier, nil
}

// NewPipeline assembles the sentiment pipeline with its repositories, AI provider and hooks.
func NewPipeline(ctx context.Context, cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, notifier telegram.Notifier) (service.SentimentPipeline, error) {
	aiRepo, err := NewAIRepository(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	source, err := repository.NewCommentSource(cfg, log)
	if err != nil {
		return nil, err
	}

	return service.NewSentimentPipeline(cfg.Pipeline, log.Named("pipeline"), service.PipelineDeps{
		AnalysisRepo: repository.NewAnalysisRepository(db),
		Source:       source,
		Classifier:   service.NewSentimentClassifier(aiRepo, cfg.Classifier.BatchSize, cfg.Classifier.MaxConcurrency, log.Named("classifier")),
		Summarizer:   service.NewSummaryExtractor(aiRepo, cfg.Pipeline.SummaryMaxChars, log.Named("summarizer")),
		Locker:       repository.NewRedisSubjectLocker(redisClient),
		Hooks:        []service.PostRunHook{service.NewTelegramRunHook(notifier, cfg.Pipeline.NotifyOnSuccess, log)},
	}), nil
}
