package repository

import (
	"context"
	"sync"
	"time"

	"galapass/guesthub/internal/model"
)

type memoryTemplateRepository struct {
	mu  sync.RWMutex
	tpl *model.EmailTemplate
}

func NewMemoryTemplateRepository() TemplateRepository {
	return &memoryTemplateRepository{}
}

func (r *memoryTemplateRepository) Get(_ context.Context) (*model.EmailTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.tpl == nil {
		return nil, ErrTemplateNotFound
	}
	tpl := *r.tpl
	return &tpl, nil
}

func (r *memoryTemplateRepository) Save(_ context.Context, tpl *model.EmailTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *tpl
	saved.UpdatedAt = time.Now()
	r.tpl = &saved
	return nil
}
