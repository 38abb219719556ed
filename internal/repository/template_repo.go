package repository

import (
	"context"
	"errors"

	"galapass/guesthub/internal/model"
)

// ErrTemplateNotFound reports that no invitation template has been saved yet.
var ErrTemplateNotFound = errors.New("email template not found")

// TemplateRepository stores the single organizer-edited invitation template.
type TemplateRepository interface {
	Get(ctx context.Context) (*model.EmailTemplate, error)
	Save(ctx context.Context, tpl *model.EmailTemplate) error
}
