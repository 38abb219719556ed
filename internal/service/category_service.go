package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"galapass/guesthub/internal/model"
	"galapass/guesthub/internal/repository"
	"galapass/guesthub/pkg/crypto"
)

const (
	categoryDeleteTokenPrefix = "guesthub:confirm:category-delete:"
	categoryDeleteTokenTTL    = 5 * time.Minute
)

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Add(ctx context.Context, name string) (*model.Category, error)
	RequestDelete(ctx context.Context, name string) (string, error)
	ConfirmDelete(ctx context.Context, name string, token string) error
	SeedDefaults(ctx context.Context) error
}

type categoryService struct {
	categoryRepo    repository.CategoryRepository
	stateStore      repository.StateStore
	defaultCategory string
	logger          *zap.Logger
}

func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	stateStore repository.StateStore,
	defaultCategory string,
	logger *zap.Logger,
) CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCategory == "" {
		defaultCategory = model.DefaultCategory
	}
	return &categoryService{
		categoryRepo:    categoryRepo,
		stateStore:      stateStore,
		defaultCategory: defaultCategory,
		logger:          logger,
	}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) Add(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	existing, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	category := model.Category{
		ID:       uuid.New(),
		Name:     name,
		Position: len(existing),
	}
	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		return nil, err
	}
	s.logger.Info("category added", zap.String("name", name))
	return &category, nil
}

// RequestDelete is phase one of category removal. The default category is the
// landing label for unclassified guests and can never be removed.
func (s *categoryService) RequestDelete(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == s.defaultCategory {
		return "", ErrProtectedCategory
	}
	exists, err := s.categoryRepo.ExistsByName(ctx, name)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", repository.ErrCategoryNotFound
	}
	token, err := crypto.GenerateConfirmToken()
	if err != nil {
		return "", fmt.Errorf("generate confirm token: %w", err)
	}
	if err := s.stateStore.Set(ctx, categoryDeleteTokenPrefix+name, []byte(token), categoryDeleteTokenTTL); err != nil {
		return "", fmt.Errorf("store confirm token: %w", err)
	}
	return token, nil
}

func (s *categoryService) ConfirmDelete(ctx context.Context, name string, token string) error {
	name = strings.TrimSpace(name)
	if name == s.defaultCategory {
		return ErrProtectedCategory
	}
	stored, err := s.stateStore.GetDel(ctx, categoryDeleteTokenPrefix+name)
	if err != nil {
		return fmt.Errorf("load confirm token: %w", err)
	}
	if len(stored) == 0 || string(stored) != token {
		return ErrConfirmTokenInvalid
	}
	if err := s.categoryRepo.DeleteByName(ctx, name); err != nil {
		return err
	}
	s.logger.Info("category deleted", zap.String("name", name))
	return nil
}

// SeedDefaults inserts the standard category set on first startup. Existing
// names are left untouched, so operator edits survive restarts.
func (s *categoryService) SeedDefaults(ctx context.Context) error {
	for i, name := range model.DefaultCategories {
		exists, err := s.categoryRepo.ExistsByName(ctx, name)
		if err != nil {
			return fmt.Errorf("check category %q: %w", name, err)
		}
		if exists {
			continue
		}
		category := model.Category{
			ID:       uuid.New(),
			Name:     name,
			Position: i,
		}
		if err := s.categoryRepo.Create(ctx, &category); err != nil {
			if errors.Is(err, repository.ErrDuplicateCategory) {
				continue
			}
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	return nil
}
