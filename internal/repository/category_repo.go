package repository

import (
	"context"
	"errors"

	"galapass/guesthub/internal/model"
)

var (
	// ErrCategoryNotFound reports that no category has the given name.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateCategory reports a name collision on create.
	ErrDuplicateCategory = errors.New("category already exists")
)

// CategoryRepository stores the ordered, admin-managed award category set.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	List(ctx context.Context) ([]model.Category, error)
	DeleteByName(ctx context.Context, name string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}
