// Package queue carries background jobs either over a Redis stream or
// directly onto the in-process worker pool.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrUnknownJob = errors.New("queue: no handler registered for job type")

// Job 佇列上傳遞的工作信封
type Job struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Decode 將 payload 解成 v
func (j Job) Decode(v any) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", j.Type, err)
	}
	return nil
}

var nowFn = func() time.Time { return time.Now().UTC() }

func NewJob(jobType string, payload any) (Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("encode %s payload: %w", jobType, err)
	}
	return Job{Type: jobType, Timestamp: nowFn(), Payload: raw}, nil
}

// Dispatcher 將工作送入佇列，不等待執行結果
type Dispatcher interface {
	Dispatch(ctx context.Context, jobType string, payload any) error
}

type Handler func(ctx context.Context, job Job) error

// Registry job type → Handler
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

func (r *Registry) Register(jobType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[jobType] = h
}

func (r *Registry) Handle(ctx context.Context, job Job) error {
	r.mu.RLock()
	h, ok := r.handlers[job.Type]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, job.Type)
	}
	return h(ctx, job)
}
