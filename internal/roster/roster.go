// Package roster holds the pure guest-lifecycle rules: lookup over a roster
// snapshot, award-category classification, and the status-mutation builders
// used by the check-in engine and the RSVP flow. Nothing in this package
// performs I/O; callers commit resulting records through a repository.
package roster

import (
	"errors"
	"strings"
	"time"

	"galapass/guesthub/internal/model"
)

var (
	// ErrAlreadyCheckedIn is returned by MarkCheckedIn when the guest's
	// check-in latch is already set. Duplicate check-in is an error the
	// venue staff must see, never a silent no-op.
	ErrAlreadyCheckedIn = errors.New("guest already checked in")
)

// Snapshot is an immutable, id-indexed view over a guest list.
type Snapshot struct {
	byID map[string]model.Guest
}

// NewSnapshot indexes guests by id. Ids are unique by store invariant; if a
// duplicate ever slipped in, the first occurrence wins.
func NewSnapshot(guests []model.Guest) *Snapshot {
	byID := make(map[string]model.Guest, len(guests))
	for _, g := range guests {
		if _, exists := byID[g.ID]; exists {
			continue
		}
		byID[g.ID] = g
	}
	return &Snapshot{byID: byID}
}

// FindByID performs an exact string match on the guest id. No normalization,
// no partial match. An empty snapshot simply reports not-found.
func (s *Snapshot) FindByID(id string) (model.Guest, bool) {
	if s == nil || s.byID == nil {
		return model.Guest{}, false
	}
	g, ok := s.byID[id]
	return g, ok
}

// Len reports the number of distinct guests in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byID)
}

// Classify assigns an award category from the organization name. The match is
// case-insensitive and bidirectional: the candidate containing a nominee name
// or a nominee name containing the candidate both count. An empty
// organization never matches.
func Classify(organization string, nominees []string, nomineeLabel, defaultLabel string) string {
	org := strings.ToLower(strings.TrimSpace(organization))
	if org == "" {
		return defaultLabel
	}
	for _, nominee := range nominees {
		n := strings.ToLower(strings.TrimSpace(nominee))
		if n == "" {
			continue
		}
		if strings.Contains(org, n) || strings.Contains(n, org) {
			return nomineeLabel
		}
	}
	return defaultLabel
}

// MarkInvited records a dispatched invitation. Re-inviting is a supported
// operator action, so this simply overwrites the timestamp.
func MarkInvited(g model.Guest, ts time.Time) model.Guest {
	g.InvitationSent = true
	sent := ts
	g.InvitationSentAt = &sent
	return g
}

// MarkConfirmed records attendance confirmation. Idempotent: a second
// confirmation keeps the original timestamp.
func MarkConfirmed(g model.Guest, ts time.Time) model.Guest {
	if g.RSVPConfirmed {
		return g
	}
	g.RSVPConfirmed = true
	confirmed := ts
	g.RSVPConfirmedAt = &confirmed
	return g
}

// MarkCheckedIn flips the check-in latch. Fails with ErrAlreadyCheckedIn when
// the latch is already set; the latch transitions false->true exactly once.
func MarkCheckedIn(g model.Guest, ts time.Time) (model.Guest, error) {
	if g.CheckedIn {
		return g, ErrAlreadyCheckedIn
	}
	g.CheckedIn = true
	arrived := ts
	g.CheckInTime = &arrived
	return g, nil
}
