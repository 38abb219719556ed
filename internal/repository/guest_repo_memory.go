package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"galapass/guesthub/internal/model"
)

// memoryGuestRepository is the in-memory guest store used for local dev and
// tests. Same contract as the Postgres implementation, including the
// conditional check-in write.
type memoryGuestRepository struct {
	mu     sync.RWMutex
	guests map[string]model.Guest
}

func NewMemoryGuestRepository() GuestRepository {
	return &memoryGuestRepository{
		guests: make(map[string]model.Guest),
	}
}

func (r *memoryGuestRepository) Create(_ context.Context, guest *model.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.guests[guest.ID]; exists {
		return ErrDuplicateGuest
	}
	now := time.Now()
	guest.CreatedAt = now
	guest.UpdatedAt = now
	r.guests[guest.ID] = *guest
	return nil
}

func (r *memoryGuestRepository) BulkCreate(_ context.Context, guests []model.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range guests {
		if _, exists := r.guests[g.ID]; exists {
			return ErrDuplicateGuest
		}
	}
	now := time.Now()
	for _, g := range guests {
		g.CreatedAt = now
		g.UpdatedAt = now
		r.guests[g.ID] = g
	}
	return nil
}

func (r *memoryGuestRepository) GetByID(_ context.Context, id string) (*model.Guest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.guests[id]
	if !ok {
		return nil, ErrGuestNotFound
	}
	return &g, nil
}

func (r *memoryGuestRepository) List(_ context.Context) ([]model.Guest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	guests := make([]model.Guest, 0, len(r.guests))
	for _, g := range r.guests {
		guests = append(guests, g)
	}
	sort.Slice(guests, func(i, j int) bool {
		return guests[i].RSVPDate.After(guests[j].RSVPDate)
	})
	return guests, nil
}

func (r *memoryGuestRepository) Update(_ context.Context, guest *model.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.guests[guest.ID]
	if !ok {
		return ErrGuestNotFound
	}
	stored.Name = guest.Name
	stored.Email = guest.Email
	stored.CountryCode = guest.CountryCode
	stored.Mobile = guest.Mobile
	stored.Organization = guest.Organization
	stored.Designation = guest.Designation
	stored.AwardCategory = guest.AwardCategory
	stored.UpdatedAt = time.Now()
	r.guests[guest.ID] = stored
	return nil
}

func (r *memoryGuestRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.guests[id]; !ok {
		return ErrGuestNotFound
	}
	delete(r.guests, id)
	return nil
}

func (r *memoryGuestRepository) MarkInvited(_ context.Context, id string, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[id]
	if !ok {
		return ErrGuestNotFound
	}
	g.InvitationSent = true
	sent := ts
	g.InvitationSentAt = &sent
	g.UpdatedAt = time.Now()
	r.guests[id] = g
	return nil
}

func (r *memoryGuestRepository) MarkConfirmed(_ context.Context, id string, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[id]
	if !ok {
		return ErrGuestNotFound
	}
	if g.RSVPConfirmed {
		return nil
	}
	g.RSVPConfirmed = true
	confirmed := ts
	g.RSVPConfirmedAt = &confirmed
	g.UpdatedAt = time.Now()
	r.guests[id] = g
	return nil
}

func (r *memoryGuestRepository) CommitCheckIn(_ context.Context, id string, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[id]
	if !ok {
		return ErrGuestNotFound
	}
	if g.CheckedIn {
		return ErrCheckInConflict
	}
	g.CheckedIn = true
	arrived := ts
	g.CheckInTime = &arrived
	g.UpdatedAt = time.Now()
	r.guests[id] = g
	return nil
}
