package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"galapass/guesthub/internal/model"
)

func TestMemoryGuestRepoCreateDuplicate(t *testing.T) {
	repo := NewMemoryGuestRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, &model.Guest{ID: "pass-1", Name: "Alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(ctx, &model.Guest{ID: "pass-1", Name: "Mallory"})
	if !errors.Is(err, ErrDuplicateGuest) {
		t.Fatalf("duplicate create err = %v, want ErrDuplicateGuest", err)
	}
}

func TestMemoryGuestRepoCommitCheckInConflict(t *testing.T) {
	repo := NewMemoryGuestRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, &model.Guest{ID: "pass-1", Name: "Alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	ts := time.Now()
	if err := repo.CommitCheckIn(ctx, "pass-1", ts); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	err := repo.CommitCheckIn(ctx, "pass-1", ts.Add(time.Minute))
	if !errors.Is(err, ErrCheckInConflict) {
		t.Fatalf("second commit err = %v, want ErrCheckInConflict", err)
	}

	g, err := repo.GetByID(ctx, "pass-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !g.CheckInTime.Equal(ts) {
		t.Fatalf("check-in time changed on conflict: %v", g.CheckInTime)
	}
}

func TestMemoryGuestRepoUpdatePreservesStatus(t *testing.T) {
	repo := NewMemoryGuestRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, &model.Guest{ID: "pass-1", Name: "Alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CommitCheckIn(ctx, "pass-1", time.Now()); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// An update with a zero latch must not clear the stored latch.
	if err := repo.Update(ctx, &model.Guest{ID: "pass-1", Name: "Alice Smith"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	g, _ := repo.GetByID(ctx, "pass-1")
	if g.Name != "Alice Smith" {
		t.Fatalf("name not updated: %q", g.Name)
	}
	if !g.CheckedIn || g.CheckInTime == nil {
		t.Fatal("update must not touch the check-in latch")
	}
}

func TestMemoryGuestRepoMarkConfirmedIdempotent(t *testing.T) {
	repo := NewMemoryGuestRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, &model.Guest{ID: "pass-1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first := time.Now()
	if err := repo.MarkConfirmed(ctx, "pass-1", first); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if err := repo.MarkConfirmed(ctx, "pass-1", first.Add(time.Hour)); err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	g, _ := repo.GetByID(ctx, "pass-1")
	if !g.RSVPConfirmedAt.Equal(first) {
		t.Fatalf("confirmation timestamp changed: %v", g.RSVPConfirmedAt)
	}
}

func TestMemoryGuestRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryGuestRepository()
	ctx := context.Background()
	base := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		g := model.Guest{ID: id, RSVPDate: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.Create(ctx, &g); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	guests, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(guests) != 3 || guests[0].ID != "new" || guests[2].ID != "old" {
		t.Fatalf("unexpected order: %v", []string{guests[0].ID, guests[1].ID, guests[2].ID})
	}
}
