package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-finance-insight/pkg/common"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// TaskDispatcher hands analysis runs to the execution service. Delivery is at-least-once.
type TaskDispatcher interface {
	Dispatch(ctx context.Context, task AnalysisTask) error
}

type redisDispatcher struct {
	client *redis.Client
	maxLen int64
	log    *logger.Logger
}

// NewRedisDispatcher publishes tasks to the analysis stream, trimming it to about maxLen entries.
func NewRedisDispatcher(client *redis.Client, maxLen int64, log *logger.Logger) TaskDispatcher {
	return &redisDispatcher{client: client, maxLen: maxLen, log: log}
}

func (d *redisDispatcher) Dispatch(ctx context.Context, task AnalysisTask) error {
	if task.RequestedAt.IsZero() {
		task.RequestedAt = utils.TimeNowKST()
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis task: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: common.RedisStreamInsightAnalysis,
		Values: map[string]interface{}{"payload": string(payload)},
	}
	if d.maxLen > 0 {
		args.MaxLen = d.maxLen
		args.Approx = true
	}

	id, err := d.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to publish analysis task: %w", err)
	}
	d.log.Debug("Analysis task dispatched",
		logger.StringField("message_id", id),
		logger.UintField("analysis_id", task.AnalysisID),
		logger.StringField("trigger", string(task.Trigger)))
	return nil
}

// FuncDispatcher adapts a function, used to run the pipeline inline.
type FuncDispatcher func(ctx context.Context, task AnalysisTask) error

func (f FuncDispatcher) Dispatch(ctx context.Context, task AnalysisTask) error {
	return f(ctx, task)
}
