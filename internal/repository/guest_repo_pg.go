package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"galapass/guesthub/internal/model"
)

type pgGuestRepository struct {
	db *gorm.DB
}

func NewPGGuestRepository(db *gorm.DB) GuestRepository {
	return &pgGuestRepository{db: db}
}

func (r *pgGuestRepository) Create(ctx context.Context, guest *model.Guest) error {
	err := r.db.WithContext(ctx).Create(guest).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateGuest
	}
	return err
}

func (r *pgGuestRepository) BulkCreate(ctx context.Context, guests []model.Guest) error {
	if len(guests) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Create(&guests).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateGuest
	}
	return err
}

func (r *pgGuestRepository) GetByID(ctx context.Context, id string) (*model.Guest, error) {
	var guest model.Guest
	if err := r.db.WithContext(ctx).First(&guest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return &guest, nil
}

func (r *pgGuestRepository) List(ctx context.Context) ([]model.Guest, error) {
	var guests []model.Guest
	if err := r.db.WithContext(ctx).Order("rsvp_date DESC").Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

// Update writes descriptive fields only. The id, the check-in latch, and the
// creation timestamps are excluded from the column set.
func (r *pgGuestRepository) Update(ctx context.Context, guest *model.Guest) error {
	res := r.db.WithContext(ctx).
		Model(&model.Guest{}).
		Where("id = ?", guest.ID).
		Select("name", "email", "country_code", "mobile", "organization", "designation", "award_category").
		Updates(guest)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrGuestNotFound
	}
	return nil
}

func (r *pgGuestRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Guest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrGuestNotFound
	}
	return nil
}

func (r *pgGuestRepository) MarkInvited(ctx context.Context, id string, ts time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Guest{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"invitation_sent":    true,
			"invitation_sent_at": ts,
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrGuestNotFound
	}
	return nil
}

func (r *pgGuestRepository) MarkConfirmed(ctx context.Context, id string, ts time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Guest{}).
		Where("id = ? AND rsvp_confirmed = false", id).
		UpdateColumns(map[string]interface{}{
			"rsvp_confirmed":    true,
			"rsvp_confirmed_at": ts,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Already confirmed is fine; missing guest is not.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *pgGuestRepository) CommitCheckIn(ctx context.Context, id string, ts time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Guest{}).
		Where("id = ? AND checked_in = false", id).
		UpdateColumns(map[string]interface{}{
			"checked_in":    true,
			"check_in_time": ts,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrCheckInConflict
	}
	return nil
}
