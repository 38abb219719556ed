package queue

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const memoryQueueDepth = 1024

type memoryQueue struct {
	jobs   chan *Job
	dead   chan *Job
	logger *zap.Logger
}

// NewMemoryQueue creates a channel-backed job queue for single-instance
// deployments and tests.
func NewMemoryQueue(logger *zap.Logger) Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &memoryQueue{
		jobs:   make(chan *Job, memoryQueueDepth),
		dead:   make(chan *Job, memoryQueueDepth),
		logger: logger,
	}
}

func (q *memoryQueue) Enqueue(ctx context.Context, job *Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *memoryQueue) Dequeue(ctx context.Context) (*Job, error) {
	timer := time.NewTimer(DequeueBlock)
	defer timer.Stop()

	select {
	case job := <-q.jobs:
		return job, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *memoryQueue) Retry(ctx context.Context, job *Job, maxRetries int) error {
	job.Attempt++
	if job.Attempt > maxRetries {
		q.logger.Warn("job moved to dead-letter queue",
			zap.String("job_id", job.ID),
			zap.Int("attempts", job.Attempt),
		)
		select {
		case q.dead <- job:
		default:
			q.logger.Error("dead-letter queue full, dropping job", zap.String("job_id", job.ID))
		}
		return nil
	}
	return q.Enqueue(ctx, job)
}
