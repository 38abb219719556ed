package queue

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMemoryQueueRoundTrip(t *testing.T) {
	q := NewMemoryQueue(nil)
	ctx := context.Background()

	job, err := NewInvitationJob(InvitationPayload{GuestID: "pass-1"})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	got, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if got == nil || got.ID != job.ID {
		t.Fatalf("dequeue = %+v, want job %s", got, job.ID)
	}
	var payload InvitationPayload
	if err := json.Unmarshal(got.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.GuestID != "pass-1" {
		t.Fatalf("payload guest id = %q", payload.GuestID)
	}
}

func TestMemoryQueueRetryThenDeadLetter(t *testing.T) {
	q := NewMemoryQueue(nil)
	ctx := context.Background()

	job, _ := NewInvitationJob(InvitationPayload{GuestID: "pass-1"})
	const maxRetries = 2

	// Attempts 1 and 2 go back on the queue.
	for i := 0; i < maxRetries; i++ {
		if err := q.Retry(ctx, job, maxRetries); err != nil {
			t.Fatalf("retry %d: %v", i+1, err)
		}
		got, err := q.Dequeue(ctx)
		if err != nil || got == nil {
			t.Fatalf("dequeue after retry %d = %+v, %v", i+1, got, err)
		}
		job = got
	}

	// The next failure exceeds the limit and dead-letters the job.
	if err := q.Retry(ctx, job, maxRetries); err != nil {
		t.Fatalf("final retry: %v", err)
	}
	mq := q.(*memoryQueue)
	select {
	case dead := <-mq.dead:
		if dead.Attempt != maxRetries+1 {
			t.Fatalf("dead job attempt = %d, want %d", dead.Attempt, maxRetries+1)
		}
	default:
		t.Fatal("job not dead-lettered")
	}
	select {
	case unexpected := <-mq.jobs:
		t.Fatalf("dead-lettered job re-enqueued: %+v", unexpected)
	default:
	}
}
