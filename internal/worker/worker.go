// Package worker runs the background email delivery loop.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"galapass/guesthub/internal/service"
	"galapass/guesthub/pkg/queue"
)

// InvitationWorker drains the job queue and hands each job to the invitation
// service. Failed jobs go back through Retry until MaxRetries, then to the
// dead letter queue.
type InvitationWorker struct {
	jobs       queue.Queue
	svc        service.InvitationService
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

func NewInvitationWorker(
	jobs queue.Queue,
	svc service.InvitationService,
	maxRetries int,
	retryDelay time.Duration,
	logger *zap.Logger,
) *InvitationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &InvitationWorker{
		jobs:       jobs,
		svc:        svc,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Run blocks until ctx is canceled. Dequeue itself blocks in bounded slices,
// so cancellation is observed within queue.DequeueBlock.
func (w *InvitationWorker) Run(ctx context.Context) {
	w.logger.Info("invitation worker started", zap.Int("max_retries", w.maxRetries))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("invitation worker stopped")
			return
		default:
		}

		job, err := w.jobs.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("invitation worker stopped")
				return
			}
			w.logger.Error("dequeue failed", zap.Error(err))
			w.sleep(ctx, w.retryDelay)
			continue
		}
		if job == nil {
			continue
		}
		w.process(ctx, job)
	}
}

func (w *InvitationWorker) process(ctx context.Context, job *queue.Job) {
	err := w.svc.ProcessJob(ctx, job)
	if err == nil {
		return
	}
	w.logger.Warn("job failed",
		zap.String("job_id", job.ID),
		zap.String("job_type", string(job.Type)),
		zap.Int("attempt", job.Attempt),
		zap.Error(err),
	)
	w.sleep(ctx, w.retryDelay)
	if retryErr := w.jobs.Retry(ctx, job, w.maxRetries); retryErr != nil {
		w.logger.Error("retry enqueue failed",
			zap.String("job_id", job.ID),
			zap.Error(retryErr),
		)
	}
}

func (w *InvitationWorker) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
