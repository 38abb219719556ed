package service

import (
	"context"
	"errors"
	"testing"

	"galapass/guesthub/internal/model"
	"galapass/guesthub/internal/repository"
)

func newCategoryService(t *testing.T) (CategoryService, repository.CategoryRepository) {
	t.Helper()
	repo := repository.NewMemoryCategoryRepository()
	store := repository.NewMemoryStateStore()
	svc := NewCategoryService(repo, store, model.DefaultCategory, nil)
	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return svc, repo
}

func TestCategorySeedDefaults(t *testing.T) {
	svc, _ := newCategoryService(t)

	categories, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(categories) != len(model.DefaultCategories) {
		t.Fatalf("got %d categories, want %d", len(categories), len(model.DefaultCategories))
	}
	if categories[0].Name != model.DefaultCategory {
		t.Fatalf("first category = %q, want the default", categories[0].Name)
	}

	// Seeding again must not duplicate.
	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	categories, _ = svc.List(context.Background())
	if len(categories) != len(model.DefaultCategories) {
		t.Fatalf("re-seed duplicated categories: %d", len(categories))
	}
}

func TestCategoryAddAndDelete(t *testing.T) {
	svc, repo := newCategoryService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "Keynote Speaker"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, "Keynote Speaker"); !errors.Is(err, repository.ErrDuplicateCategory) {
		t.Fatalf("duplicate add err = %v, want ErrDuplicateCategory", err)
	}

	token, err := svc.RequestDelete(ctx, "Keynote Speaker")
	if err != nil {
		t.Fatalf("request delete: %v", err)
	}
	if err := svc.ConfirmDelete(ctx, "Keynote Speaker", "wrong-token"); !errors.Is(err, ErrConfirmTokenInvalid) {
		t.Fatalf("wrong token err = %v, want ErrConfirmTokenInvalid", err)
	}
	// The wrong attempt consumed the token.
	if err := svc.ConfirmDelete(ctx, "Keynote Speaker", token); !errors.Is(err, ErrConfirmTokenInvalid) {
		t.Fatalf("spent token err = %v, want ErrConfirmTokenInvalid", err)
	}

	token, err = svc.RequestDelete(ctx, "Keynote Speaker")
	if err != nil {
		t.Fatalf("second request delete: %v", err)
	}
	if err := svc.ConfirmDelete(ctx, "Keynote Speaker", token); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	exists, _ := repo.ExistsByName(ctx, "Keynote Speaker")
	if exists {
		t.Fatal("category still present after delete")
	}
}

func TestCategoryDefaultIsProtected(t *testing.T) {
	svc, _ := newCategoryService(t)
	ctx := context.Background()

	if _, err := svc.RequestDelete(ctx, model.DefaultCategory); !errors.Is(err, ErrProtectedCategory) {
		t.Fatalf("request err = %v, want ErrProtectedCategory", err)
	}
	if err := svc.ConfirmDelete(ctx, model.DefaultCategory, "any"); !errors.Is(err, ErrProtectedCategory) {
		t.Fatalf("confirm err = %v, want ErrProtectedCategory", err)
	}
}
