package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisQueue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisQueue creates a Redis-list-backed job queue.
func NewRedisQueue(client *redis.Client, logger *zap.Logger) Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisQueue{client: client, logger: logger}
}

func (q *redisQueue) Enqueue(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, KeyInvitations, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	q.logger.Debug("enqueued job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
	return nil
}

func (q *redisQueue) Dequeue(ctx context.Context) (*Job, error) {
	res, err := q.client.BLPop(ctx, DequeueBlock, KeyInvitations).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("blpop: %w", err)
	}
	// BLPOP returns [key, value].
	if len(res) < 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

func (q *redisQueue) Retry(ctx context.Context, job *Job, maxRetries int) error {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if job.Attempt > maxRetries {
		q.logger.Warn("job moved to dead-letter queue",
			zap.String("job_id", job.ID),
			zap.Int("attempts", job.Attempt),
		)
		return q.client.RPush(ctx, KeyDLQ, raw).Err()
	}
	return q.client.RPush(ctx, KeyInvitations, raw).Err()
}
