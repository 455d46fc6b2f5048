package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"user-api/internal/broker"
	"user-api/internal/logging"
	"user-api/internal/worker"

	"github.com/redis/go-redis/v9"
)

type ConsumerConfig struct {
	Stream     string
	Group      string
	Consumer   string
	BatchSize  int64
	Block      time.Duration
	RetryDelay time.Duration
	// ClaimIdle pending 超過此時間的訊息會被認領，也是定期認領的間隔
	ClaimIdle time.Duration
}

// Consumer 以 consumer group 讀取 stream，交給 worker pool 執行
// 每則訊息在 handler 執行完後一律 XACK，不論成功與否
// 啟動時先處理自己未 ack 的訊息，之後定期以 XAUTOCLAIM 接手其他 consumer 閒置的訊息
type Consumer struct {
	broker   broker.Broker
	pool     worker.Pool
	registry *Registry
	logger   logging.Logger
	cfg      ConsumerConfig
}

func NewConsumer(b broker.Broker, pool worker.Pool, registry *Registry, logger logging.Logger, cfg ConsumerConfig) *Consumer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.ClaimIdle <= 0 {
		cfg.ClaimIdle = time.Minute
	}
	return &Consumer{
		broker:   b,
		pool:     pool,
		registry: registry,
		logger:   logger.With("stream", cfg.Stream, "group", cfg.Group, "consumer", cfg.Consumer),
		cfg:      cfg,
	}
}

// Run 阻塞直到 ctx 結束；ctx 結束時回傳 nil
func (c *Consumer) Run(ctx context.Context) error {
	err := c.broker.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}
	c.logger.Info(ctx, "consumer started")

	if err := c.readPending(ctx); err != nil && ctx.Err() == nil {
		c.logger.Error(ctx, "read pending failed", "error", err)
	}
	var lastClaim time.Time

	for {
		if ctx.Err() != nil {
			c.logger.Info(context.WithoutCancel(ctx), "consumer stopping")
			return nil
		}
		if time.Since(lastClaim) >= c.cfg.ClaimIdle {
			lastClaim = time.Now()
			if err := c.claimIdle(ctx); err != nil && ctx.Err() == nil {
				c.logger.Error(ctx, "claim idle messages failed", "error", err)
			}
		}
		if err := c.readOnce(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			c.logger.Error(ctx, "read stream failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(c.cfg.RetryDelay):
			}
		}
	}
}

func (c *Consumer) readOnce(ctx context.Context) error {
	streams, err := c.broker.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		Streams:  []string{c.cfg.Stream, ">"},
		Count:    c.cfg.BatchSize,
		Block:    c.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("xreadgroup: %w", err)
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			if err := c.dispatch(ctx, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// readPending 重新處理已投遞給本 consumer 但尚未 ack 的訊息
func (c *Consumer) readPending(ctx context.Context) error {
	start := "0"
	for {
		streams, err := c.broker.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.Consumer,
			Streams:  []string{c.cfg.Stream, start},
			Count:    c.cfg.BatchSize,
			Block:    -1,
		}).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("xreadgroup pending: %w", err)
		}

		n := 0
		for _, stream := range streams {
			for _, msg := range stream.Messages {
				n++
				start = msg.ID
				if err := c.dispatch(ctx, msg); err != nil {
					return err
				}
			}
		}
		if n == 0 {
			return nil
		}
	}
}

// claimIdle 認領其他 consumer 閒置超過 ClaimIdle 的 pending 訊息
func (c *Consumer) claimIdle(ctx context.Context) error {
	start := "0-0"
	for {
		msgs, next, err := c.broker.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.cfg.Stream,
			Group:    c.cfg.Group,
			Consumer: c.cfg.Consumer,
			MinIdle:  c.cfg.ClaimIdle,
			Start:    start,
			Count:    c.cfg.BatchSize,
		}).Result()
		if err != nil {
			return fmt.Errorf("xautoclaim: %w", err)
		}
		for _, msg := range msgs {
			if err := c.dispatch(ctx, msg); err != nil {
				return err
			}
		}
		if next == "" || next == "0-0" {
			return nil
		}
		start = next
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg redis.XMessage) error {
	bgCtx := context.WithoutCancel(ctx)

	job, err := decodeMessage(msg)
	if err != nil {
		c.logger.Error(ctx, "drop malformed message", "id", msg.ID, "error", err)
		c.ack(bgCtx, msg.ID)
		return nil
	}

	return c.pool.Submit(ctx, func() {
		if err := c.registry.Handle(bgCtx, job); err != nil {
			c.logger.Error(bgCtx, "job failed", "id", msg.ID, "type", job.Type, "error", err)
		}
		c.ack(bgCtx, msg.ID)
	})
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.broker.XAck(ctx, c.cfg.Stream, c.cfg.Group, id).Err(); err != nil {
		c.logger.Error(ctx, "xack failed", "id", id, "error", err)
	}
}

func decodeMessage(msg redis.XMessage) (Job, error) {
	raw, ok := msg.Values[jobField].(string)
	if !ok {
		return Job{}, fmt.Errorf("missing %q field", jobField)
	}
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	return job, nil
}
