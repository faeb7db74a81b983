package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mergington-activities/internal/common/config"
)

// RedisSink publishes events on a channel and keeps a capped list of the
// most recent ones.
type RedisSink struct {
	client     *redis.Client
	channel    string
	recentKey  string
	recentSize int
}

func NewRedisSink(client *redis.Client, cfg config.RedisConfig) *RedisSink {
	return &RedisSink{
		client:     client,
		channel:    cfg.Channel,
		recentKey:  cfg.RecentKey,
		recentSize: cfg.RecentSize,
	}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Deliver(ctx context.Context, event RosterEvent) error {
	payload, err := event.JSON()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Publish(ctx, s.channel, payload)
	if s.recentKey != "" && s.recentSize > 0 {
		pipe.LPush(ctx, s.recentKey, payload)
		pipe.LTrim(ctx, s.recentKey, 0, int64(s.recentSize-1))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}
