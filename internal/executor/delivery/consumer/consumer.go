package consumer

import (
	"context"
	"sync"
	"time"

	"golang-finance-insight/internal/executor/config"
	"golang-finance-insight/internal/executor/service"
	"golang-finance-insight/pkg/common"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/utils"
)

// RedisConsumer drives the analysis stream loops.
type RedisConsumer struct {
	cfg                 *config.Config
	analysisTaskService service.AnalysisTaskService
	logger              *logger.Logger
	stopChan            chan struct{}
	stopOnce            sync.Once
	wg                  sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *config.Config,
	analysisTaskService service.AnalysisTaskService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:                 cfg,
		analysisTaskService: analysisTaskService,
		logger:              log,
		stopChan:            make(chan struct{}),
	}
}

// Start begins the consumer's task processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.analysisTaskService.ProcessTask, common.RedisStreamInsightAnalysis, c.cfg.Executor.AnalysisTimeout)

	//handle retry
	c.RegisterTickerHandler(ctx, c.analysisTaskService.ProcessRetries, c.cfg.Executor.AnalysisRetryInterval, c.cfg.Executor.AnalysisTimeout, common.RedisStreamInsightAnalysis+"-retry")
}

func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(c.logger, func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

func (c *RedisConsumer) RegisterTickerHandler(ctx context.Context, fn func(ctx context.Context), interval time.Duration, timeout time.Duration, name string) {
	c.logger.Info("Registering ticker handler",
		logger.Field("name", name),
		logger.Field("interval", interval),
		logger.Field("timeout", timeout))
	c.wg.Add(1)
	utils.GoSafe(c.logger, func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			case <-ctx.Done():
				c.logger.Info("Ticker handler stopping due to context cancellation", logger.Field("name", name))
				return
			case <-c.stopChan:
				c.logger.Info("Ticker handler stopping", logger.Field("name", name))
				return
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
