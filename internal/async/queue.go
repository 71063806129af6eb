// Package async runs extraction jobs on a bounded worker pool so uploads
// return immediately while documents process in the background.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcatarino/order-extractor/internal/jobs"
)

// Runner executes one job to completion, including status bookkeeping.
type Runner func(ctx context.Context, job jobs.Job)

// Queue feeds queued jobs to a fixed set of workers.
type Queue struct {
	run     Runner
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan jobs.Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan jobs.Job, n)
		}
	}
}

func WithJobTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// NewQueue starts the workers immediately. Two workers by default: page
// extraction is model-bound, more parallelism mostly trips rate limits.
func NewQueue(run Runner, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		run:     run,
		logger:  logger,
		workers: 2,
		timeout: 30 * time.Minute,
		ch:      make(chan jobs.Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("async.worker.started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					q.run(ctx, job)
					cancel()
				}

				q.logger.Info("async.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue queues a job, blocking when the buffer is full. Jobs submitted
// after shutdown are dropped with a warning.
func (q *Queue) Enqueue(_ context.Context, job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("async.enqueue.rejected", "job_id", job.ID, "reason", "shutting down")
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("async.enqueue.ok", "job_id", job.ID)
	default:
		q.logger.Warn("async.enqueue.backpressure", "job_id", job.ID)
		q.ch <- job
	}
	return nil
}

// Shutdown closes the queue and waits for running jobs, bounded by ctx.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("async.shutdown.interrupted")
	case <-done:
		q.logger.Info("async.shutdown.drained")
	}
}
