// Package queue provides the invitation job queue: Redis-backed in
// production, channel-backed for local dev and tests.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	// KeyInvitations is the Redis list key for invitation email jobs.
	KeyInvitations = "guesthub:queue:invitations"
	// KeyDLQ holds jobs that exhausted their retries.
	KeyDLQ = "guesthub:queue:dlq"
	// DequeueBlock bounds how long a dequeue waits before reporting an
	// empty queue.
	DequeueBlock = 5 * time.Second
)

// JobType identifies the job kind.
type JobType string

const (
	JobTypeInvitation JobType = "invitation"
	JobTypePassEmail  JobType = "pass_email"
)

// InvitationPayload is the payload for invitation email jobs. The worker
// re-reads the guest at send time, so only the id travels on the queue.
type InvitationPayload struct {
	GuestID string `json:"guest_id"`
}

// Job is a generic job envelope.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewInvitationJob wraps a payload in a fresh job envelope.
func NewInvitationJob(payload InvitationPayload) (*Job, error) {
	return newJob(JobTypeInvitation, payload)
}

// NewPassEmailJob creates a job that re-sends a guest their pass after a
// successful registration.
func NewPassEmailJob(payload InvitationPayload) (*Job, error) {
	return newJob(JobTypePassEmail, payload)
}

func newJob(jobType JobType, payload InvitationPayload) (*Job, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Payload:   body,
		CreatedAt: time.Now(),
	}, nil
}

// Queue enqueues and dequeues invitation jobs.
//
// Dequeue blocks up to DequeueBlock and returns (nil, nil) when no job
// arrived, so worker loops can re-check their context. Retry re-enqueues a
// failed job with an incremented attempt counter; once attempts exceed the
// given limit the job is dead-lettered instead.
type Queue interface {
	Enqueue(ctx context.Context, job *Job) error
	Dequeue(ctx context.Context) (*Job, error)
	Retry(ctx context.Context, job *Job, maxRetries int) error
}
