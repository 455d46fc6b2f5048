// worker 從 Redis Stream 讀取任務並執行（目前只有新使用者通知）
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"user-api/internal/broker"
	"user-api/internal/config"
	"user-api/internal/jobs"
	"user-api/internal/logging"
	"user-api/internal/notify"
	"user-api/internal/queue"
	"user-api/internal/worker"
)

var errRedisRequired = errors.New("worker 需要 QUEUE_DRIVER=redis")

var (
	loadConfig = config.Load
	newLogger  = func(cfg *config.Config) (logging.Logger, error) {
		return logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	}
	newRedisClient = broker.NewRedisClient
	newWorkerPool  = worker.NewPool
	signalContext  = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
	exitFunc = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}
	if cfg.QueueDriver != config.QueueRedis {
		return errRedisRequired
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	b, err := newRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer b.Close()

	pool := newWorkerPool(cfg.WorkerCount, cfg.WorkerBacklog, logger)
	registry := queue.NewRegistry()
	jobs.Register(registry, notify.NewSlackSender(cfg.SlackWebhookURL, cfg.NotifyTimeout), logger)

	consumer := queue.NewConsumer(b, pool, registry, logger, queue.ConsumerConfig{
		Stream:    cfg.QueueStream,
		Group:     cfg.QueueGroup,
		Consumer:  cfg.QueueConsumer,
		ClaimIdle: cfg.QueueClaimIdle,
	})
	err = consumer.Run(ctx)
	// 等待已送進 pool 的任務跑完再 Close broker
	pool.Stop()
	if err != nil {
		return fmt.Errorf("consumer 失敗: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
