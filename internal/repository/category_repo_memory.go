package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"galapass/guesthub/internal/model"
)

type memoryCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]model.Category // keyed by name
}

func NewMemoryCategoryRepository() CategoryRepository {
	return &memoryCategoryRepository{
		categories: make(map[string]model.Category),
	}
}

func (r *memoryCategoryRepository) Create(_ context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[category.Name]; exists {
		return ErrDuplicateCategory
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	r.categories[category.Name] = *category
	return nil
}

func (r *memoryCategoryRepository) List(_ context.Context) ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Position != categories[j].Position {
			return categories[i].Position < categories[j].Position
		}
		return categories[i].CreatedAt.Before(categories[j].CreatedAt)
	})
	return categories, nil
}

func (r *memoryCategoryRepository) DeleteByName(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[name]; !ok {
		return ErrCategoryNotFound
	}
	delete(r.categories, name)
	return nil
}

func (r *memoryCategoryRepository) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.categories[name]
	return ok, nil
}
