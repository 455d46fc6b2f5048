package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"user-api/internal/logging"
	"user-api/internal/worker"

	"github.com/stretchr/testify/require"
)

func TestLocalDispatcher(t *testing.T) {
	pool := worker.NewPool(1, 4, nil)
	reg := NewRegistry()
	done := make(chan Job, 1)
	reg.Register("user.created", func(ctx context.Context, job Job) error {
		done <- job
		return errors.New("ignored")
	})

	d := NewLocalDispatcher(pool, reg, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Dispatch(ctx, "user.created", map[string]int{"id": 1}))
	cancel()

	select {
	case job := <-done:
		require.JSONEq(t, `{"id":1}`, string(job.Payload))
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}

	pool.Stop()
	err := d.Dispatch(context.Background(), "user.created", nil)
	require.ErrorIs(t, err, worker.ErrStopped)
}
