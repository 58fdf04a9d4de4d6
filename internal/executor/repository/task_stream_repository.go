package repository

import (
	"context"
	"errors"
	"time"

	"golang-finance-insight/pkg/common"

	"github.com/redis/go-redis/v9"
)

// StreamMessage is one entry read from the analysis stream.
type StreamMessage struct {
	ID     string
	Values map[string]interface{}
}

// TaskStreamRepository wraps the consumer-group operations on the analysis stream.
type TaskStreamRepository interface {
	// Read blocks up to block for one new message. It returns nil when none arrived.
	Read(ctx context.Context, block time.Duration) (*StreamMessage, error)
	// ClaimStale takes over one message idle for at least minIdle and reports its delivery count.
	ClaimStale(ctx context.Context, minIdle time.Duration) (*StreamMessage, int64, error)
	AckNDel(ctx context.Context, messageID string) error
}

type redisTaskStream struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
}

// NewRedisTaskStream creates the consumer group if it does not exist yet.
func NewRedisTaskStream(ctx context.Context, client *redis.Client) (TaskStreamRepository, error) {
	s := &redisTaskStream{
		client:   client,
		stream:   common.RedisStreamInsightAnalysis,
		group:    common.RedisStreamGroup,
		consumer: common.RedisStreamConsumer,
	}
	err := client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return nil, err
	}
	return s, nil
}

func (s *redisTaskStream) Read(ctx context.Context, block time.Duration) (*StreamMessage, error) {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    1,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, nil
	}
	msg := streams[0].Messages[0]
	return &StreamMessage{ID: msg.ID, Values: msg.Values}, nil
}

func (s *redisTaskStream) ClaimStale(ctx context.Context, minIdle time.Duration) (*StreamMessage, int64, error) {
	msgs, _, err := s.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   s.stream,
		Group:    s.group,
		Consumer: s.consumer + "-retry",
		MinIdle:  minIdle,
		Start:    "0",
		Count:    1,
	}).Result()
	if err != nil {
		return nil, 0, err
	}
	if len(msgs) == 0 {
		return nil, 0, nil
	}

	pending, err := s.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: s.stream,
		Group:  s.group,
		Start:  msgs[0].ID,
		End:    msgs[0].ID,
		Count:  1,
	}).Result()
	if err != nil {
		return nil, 0, err
	}

	var retries int64
	if len(pending) > 0 {
		retries = pending[0].RetryCount
	}
	return &StreamMessage{ID: msgs[0].ID, Values: msgs[0].Values}, retries, nil
}

func (s *redisTaskStream) AckNDel(ctx context.Context, messageID string) error {
	if err := s.client.XAck(ctx, s.stream, s.group, messageID).Err(); err != nil {
		return err
	}
	return s.client.XDel(ctx, s.stream, messageID).Err()
}
