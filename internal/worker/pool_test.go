package worker

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsEveryJob(t *testing.T) {
	pool := NewWorkerPool(3)
	pool.Start(context.Background())

	var count int32
	for i := 0; i < 50; i++ {
		require.NoError(t, pool.Submit(context.Background(), func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}))
	}
	pool.Stop()

	assert.Equal(t, int32(50), atomic.LoadInt32(&count))
}

func TestWorkerPoolSubmitCancelled(t *testing.T) {
	pool := NewWorkerPool(1)
	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, pool.Submit(context.Background(), noop))
	require.NoError(t, pool.Submit(context.Background(), noop))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pool.Submit(ctx, noop), context.Canceled)

	pool.Start(context.Background())
	pool.Stop()
}
