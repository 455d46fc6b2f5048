package queue

import (
	"context"
	"fmt"

	"user-api/internal/logging"
	"user-api/internal/worker"
)

// LocalDispatcher 直接交給行程內 worker pool 執行
// 工作不會跨重啟保留
type LocalDispatcher struct {
	pool     worker.Pool
	registry *Registry
	logger   logging.Logger
}

func NewLocalDispatcher(pool worker.Pool, registry *Registry, logger logging.Logger) *LocalDispatcher {
	return &LocalDispatcher{pool: pool, registry: registry, logger: logger}
}

func (d *LocalDispatcher) Dispatch(ctx context.Context, jobType string, payload any) error {
	job, err := NewJob(jobType, payload)
	if err != nil {
		return err
	}

	jobCtx := context.WithoutCancel(ctx)
	if err := d.pool.Submit(ctx, func() {
		if err := d.registry.Handle(jobCtx, job); err != nil {
			d.logger.Error(jobCtx, "job failed", "type", job.Type, "error", err)
		}
	}); err != nil {
		return fmt.Errorf("enqueue %s: %w", jobType, err)
	}
	return nil
}
