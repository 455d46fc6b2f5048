package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"user-api/internal/logging"
)

// ErrStopped is returned by Submit after Stop has been called.
var ErrStopped = errors.New("worker pool stopped")

// Task represents a unit of work executed by the pool.
type Task func()

// Pool defines a bounded worker pool.
type Pool interface {
	// Submit queues t. It blocks while the backlog is full until ctx is done.
	Submit(ctx context.Context, t Task) error
	// Stop refuses new tasks and waits for queued ones to finish.
	Stop()
}

// NewPool creates a pool with n workers and a queue of backlog pending tasks.
// n<=0 defaults to 1, backlog<0 defaults to 0.
func NewPool(n, backlog int, logger logging.Logger) Pool {
	if n <= 0 {
		n = 1
	}
	if backlog < 0 {
		backlog = 0
	}
	if logger == nil {
		logger = logging.Discard()
	}
	p := &pool{jobs: make(chan Task, backlog), logger: logger}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(job)
			}
		}()
	}
	return p
}

type pool struct {
	jobs    chan Task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
	logger  logging.Logger
}

func (p *pool) run(job Task) {
	if job == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(context.Background(), "worker task panicked", "panic", fmt.Sprint(r))
		}
	}()
	job()
}

func (p *pool) Submit(ctx context.Context, t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.jobs <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
