package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"user-api/internal/broker"

	"github.com/redis/go-redis/v9"
)

// jobField Redis stream entry 中存放 Job JSON 的欄位
const jobField = "job"

// StreamDispatcher 以 XADD 將工作寫入 Redis stream
type StreamDispatcher struct {
	broker broker.Broker
	stream string
}

func NewStreamDispatcher(b broker.Broker, stream string) *StreamDispatcher {
	return &StreamDispatcher{broker: b, stream: stream}
}

func (d *StreamDispatcher) Dispatch(ctx context.Context, jobType string, payload any) error {
	job, err := NewJob(jobType, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	if err := d.broker.XAdd(ctx, &redis.XAddArgs{
		Stream: d.stream,
		Values: map[string]any{jobField: string(raw)},
	}).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", jobType, err)
	}
	return nil
}
