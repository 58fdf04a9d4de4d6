package redis

import (
	"context"
	"fmt"
	"time"

	"golang-finance-insight/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client with the stream settings of the service.
type Client struct {
	*redis.Client
	StreamMaxLen int64
}

// NewClient connects to redis and verifies the connection with a PING.
func NewClient(cfg config.Redis) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{Client: rdb, StreamMaxLen: cfg.StreamMaxLen}, nil
}
