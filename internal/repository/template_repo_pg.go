package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"galapass/guesthub/internal/model"
)

// The template table holds exactly one row.
const templateRowID = 1

type pgTemplateRepository struct {
	db *gorm.DB
}

func NewPGTemplateRepository(db *gorm.DB) TemplateRepository {
	return &pgTemplateRepository{db: db}
}

func (r *pgTemplateRepository) Get(ctx context.Context) (*model.EmailTemplate, error) {
	var tpl model.EmailTemplate
	if err := r.db.WithContext(ctx).First(&tpl, "id = ?", templateRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *pgTemplateRepository) Save(ctx context.Context, tpl *model.EmailTemplate) error {
	tpl.ID = templateRowID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"subject", "image_url", "body", "updated_at"}),
		}).
		Create(tpl).Error
}
