package repository

import (
	"context"
	"errors"
	"time"

	"galapass/guesthub/internal/model"
)

var (
	// ErrGuestNotFound reports that no guest record has the given id.
	ErrGuestNotFound = errors.New("guest not found")
	// ErrDuplicateGuest reports a pass-id collision on create.
	ErrDuplicateGuest = errors.New("guest id already exists")
	// ErrCheckInConflict reports that the conditional check-in write matched
	// no row because the guest is already checked in. Distinct from a hard
	// store failure so the engine can report a re-used pass instead of a
	// fatal error.
	ErrCheckInConflict = errors.New("guest already checked in")
)

// GuestRepository is the authoritative guest store. Status mutations are
// narrow, column-level writes; Update covers descriptive fields only and can
// never touch the id or the check-in latch.
type GuestRepository interface {
	Create(ctx context.Context, guest *model.Guest) error
	BulkCreate(ctx context.Context, guests []model.Guest) error
	GetByID(ctx context.Context, id string) (*model.Guest, error)
	List(ctx context.Context) ([]model.Guest, error)
	Update(ctx context.Context, guest *model.Guest) error
	Delete(ctx context.Context, id string) error

	MarkInvited(ctx context.Context, id string, ts time.Time) error
	MarkConfirmed(ctx context.Context, id string, ts time.Time) error

	// CommitCheckIn sets the check-in latch if and only if it is still
	// unset, serializing concurrent scanners at the store. Returns
	// ErrCheckInConflict when another write won the race.
	CommitCheckIn(ctx context.Context, id string, ts time.Time) error
}
