package roster

import (
	"errors"
	"testing"
	"time"

	"galapass/guesthub/internal/model"
)

var nominees = []string{"Emirates", "Qatar Airways", "Maldivian"}

func TestClassify(t *testing.T) {
	cases := []struct {
		org  string
		want string
	}{
		{"Emirates", "Nominee / Partner"},
		{"emirates", "Nominee / Partner"},
		{"Emirates Airlines", "Nominee / Partner"},
		{"Qatar", "Nominee / Partner"},
		{"Acme Corp", "Not an Award Recipient"},
		{"", "Not an Award Recipient"},
		{"   ", "Not an Award Recipient"},
	}
	for _, tc := range cases {
		got := Classify(tc.org, nominees, "Nominee / Partner", "Not an Award Recipient")
		if got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.org, got, tc.want)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify("Emirates Airlines", nominees, "Nominee / Partner", "Not an Award Recipient")
	for i := 0; i < 10; i++ {
		got := Classify("Emirates Airlines", nominees, "Nominee / Partner", "Not an Award Recipient")
		if got != first {
			t.Fatalf("classification changed between calls: %q vs %q", first, got)
		}
	}
}

func TestSnapshotFindByID(t *testing.T) {
	snap := NewSnapshot([]model.Guest{
		{ID: "abc", Name: "Alice"},
		{ID: "def", Name: "Bob"},
	})

	if snap.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", snap.Len())
	}
	g, ok := snap.FindByID("abc")
	if !ok || g.Name != "Alice" {
		t.Fatalf("FindByID(abc) = %+v, %v", g, ok)
	}
	if _, ok := snap.FindByID("ABC"); ok {
		t.Fatal("lookup must be an exact match, got a hit for wrong case")
	}
	if _, ok := snap.FindByID("missing"); ok {
		t.Fatal("unexpected hit for unknown id")
	}
}

func TestSnapshotDuplicateIDFirstWins(t *testing.T) {
	snap := NewSnapshot([]model.Guest{
		{ID: "abc", Name: "First"},
		{ID: "abc", Name: "Second"},
	})
	g, _ := snap.FindByID("abc")
	if g.Name != "First" {
		t.Fatalf("duplicate id resolved to %q, want First", g.Name)
	}
}

func TestMarkCheckedInLatch(t *testing.T) {
	ts := time.Date(2026, 2, 12, 19, 15, 0, 0, time.UTC)
	g, err := MarkCheckedIn(model.Guest{ID: "abc"}, ts)
	if err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	if !g.CheckedIn || g.CheckInTime == nil || !g.CheckInTime.Equal(ts) {
		t.Fatalf("latch not set: %+v", g)
	}

	later := ts.Add(time.Hour)
	again, err := MarkCheckedIn(g, later)
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("second check-in err = %v, want ErrAlreadyCheckedIn", err)
	}
	if !again.CheckInTime.Equal(ts) {
		t.Fatalf("check-in time changed on duplicate: %v", again.CheckInTime)
	}
}

func TestMarkConfirmedIdempotent(t *testing.T) {
	ts := time.Now()
	g := MarkConfirmed(model.Guest{ID: "abc"}, ts)
	if !g.RSVPConfirmed || g.RSVPConfirmedAt == nil {
		t.Fatalf("confirmation not recorded: %+v", g)
	}
	again := MarkConfirmed(g, ts.Add(time.Hour))
	if !again.RSVPConfirmedAt.Equal(*g.RSVPConfirmedAt) {
		t.Fatal("second confirmation must keep the original timestamp")
	}
}

func TestMarkInvitedOverwrites(t *testing.T) {
	first := time.Now()
	g := MarkInvited(model.Guest{ID: "abc"}, first)
	second := first.Add(time.Hour)
	g = MarkInvited(g, second)
	if !g.InvitationSentAt.Equal(second) {
		t.Fatalf("re-invite must overwrite timestamp, got %v", g.InvitationSentAt)
	}
}
