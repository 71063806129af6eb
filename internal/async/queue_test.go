package async

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcatarino/order-extractor/internal/jobs"
)

func TestQueueRunsJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}

	q := NewQueue(func(_ context.Context, job jobs.Job) {
		mu.Lock()
		seen[job.ID] = true
		mu.Unlock()
	}, nil, WithWorkers(3), WithQueueSize(8))

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		job := jobs.NewJob("/tmp/x.pdf", "x.pdf")
		ids = append(ids, job.ID)
		require.NoError(t, q.Enqueue(context.Background(), job))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 5
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		assert.True(t, seen[id])
	}
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	ran := make(chan struct{}, 1)
	q := NewQueue(func(context.Context, jobs.Job) {
		ran <- struct{}{}
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	require.NoError(t, q.Enqueue(context.Background(), jobs.NewJob("/tmp/x.pdf", "x.pdf")))
	select {
	case <-ran:
		t.Fatal("job ran after shutdown")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestQueueShutdownIdempotent(t *testing.T) {
	q := NewQueue(func(context.Context, jobs.Job) {}, nil)
	ctx := context.Background()
	q.Shutdown(ctx)
	q.Shutdown(ctx)
}

func TestQueueJobContextTimeout(t *testing.T) {
	done := make(chan error, 1)
	q := NewQueue(func(ctx context.Context, _ jobs.Job) {
		deadline, ok := ctx.Deadline()
		if !ok {
			done <- context.Canceled
			return
		}
		_ = deadline
		done <- nil
	}, nil, WithJobTimeout(time.Minute))

	require.NoError(t, q.Enqueue(context.Background(), jobs.NewJob("/tmp/x.pdf", "x.pdf")))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("job never ran")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)
}
