package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"go.uber.org/zap"
)

const maxCategoryNameLength = 50

// CategoryService manages menu categories
type CategoryService struct {
	store *repository.Store
	cache CatalogCache
	log   *zap.Logger
}

func NewCategoryService(store *repository.Store, cache CatalogCache, log *zap.Logger) *CategoryService {
	return &CategoryService{store: store, cache: cache, log: log}
}

func validateName(field, name string, max int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("%s is required", field)
	}
	if len(name) > max {
		return "", validationError("%s cannot exceed %d characters", field, max)
	}
	return name, nil
}

func validateID(field string, id uint) error {
	if id == 0 {
		return validationError("%s must be a positive integer", field)
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name, err := validateName("Category name", name, maxCategoryNameLength)
	if err != nil {
		return nil, err
	}

	taken, err := s.store.Categories.NameTaken(ctx, name, 0)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return nil, conflictError("CATEGORY_EXISTS", "Category %q already exists", name)
	}

	category := &models.Category{Name: name}
	if err := s.store.Categories.Create(ctx, category); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, conflictError("CATEGORY_EXISTS", "Category %q already exists", name)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.invalidate(ctx)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, name string) (*models.Category, error) {
	if err := validateID("Category id", id); err != nil {
		return nil, err
	}
	name, err := validateName("Category name", name, maxCategoryNameLength)
	if err != nil {
		return nil, err
	}

	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.store.Categories.NameTaken(ctx, name, id)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return nil, conflictError("CATEGORY_EXISTS", "Category %q already exists", name)
	}

	category.Name = name
	if err := s.store.Categories.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.invalidate(ctx)
	return category, nil
}

// Delete removes a category that no dish belongs to
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := validateID("Category id", id); err != nil {
		return err
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Categories.FindByID(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return ErrCategoryNotFound
			}
			return err
		}
		count, err := tx.Categories.CountDishes(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryInUse
		}
		return tx.Categories.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	if err := validateID("Category id", id); err != nil {
		return nil, err
	}
	category, err := s.store.Categories.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("Category name is required")
	}
	category, err := s.store.Categories.FindByName(ctx, name)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

// List returns every category, served from the cache when possible
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	hit, err := s.cache.Get(ctx, cacheKeyCategories, &categories)
	if err != nil {
		s.log.Warn("category cache read failed", zap.Error(err))
	}
	if hit {
		return categories, nil
	}

	categories, err = s.store.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if err := s.cache.Set(ctx, cacheKeyCategories, categories); err != nil {
		s.log.Warn("category cache write failed", zap.Error(err))
	}
	return categories, nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, menuCacheKeys()...); err != nil {
		s.log.Warn("menu cache invalidation failed", zap.Error(err))
	}
}
