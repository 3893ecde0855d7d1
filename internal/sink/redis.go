package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oranjParker/mlapi/internal/core"
	"github.com/redis/go-redis/v9"
)

// RedisSink publishes notifications on a pub/sub channel. Nothing is stored.
type RedisSink struct {
	rdb     *redis.Client
	channel string
}

func NewRedisSink(rdb *redis.Client, channel string) *RedisSink {
	return &RedisSink{
		rdb:     rdb,
		channel: channel,
	}
}

func (s *RedisSink) Write(ctx context.Context, item *core.ScrapeNotification) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("redis marshal failed: %w", err)
	}

	if err := s.rdb.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("%w: redis publish to %s: %v", core.ErrSinkWriteFailed, s.channel, err)
	}
	return nil
}

func (s *RedisSink) Close() error {
	return s.rdb.Close()
}
