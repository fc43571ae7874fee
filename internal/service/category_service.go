package service

import (
	"context"
	"errors"
	"strings"

	"itsour/internal/content"
	"itsour/internal/models"
	"itsour/internal/repository"

	"gorm.io/gorm"
)

type CreateCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CategoryService manages the category taxonomy. Category slugs follow the
// same derivation rules as article slugs but live in their own namespace.
type CategoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("Name is required")
	}

	slug, err := content.UniqueSlug(in.Name, func(candidate string) (bool, error) {
		return s.categories.SlugExists(ctx, candidate, 0)
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	category := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        slug,
		Description: in.Description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewValidationError("A category with this name already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != category.Name {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		slug, err := content.UniqueSlug(name, func(candidate string) (bool, error) {
			return s.categories.SlugExists(ctx, candidate, category.ID)
		})
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		category.Name = name
		category.Slug = slug
	}
	if in.Description != nil {
		category.Description = *in.Description
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewValidationError("A category with this name already exists")
		}
		return nil, models.NewInternalError(err)
	}
	return category, nil
}

func (s *CategoryService) All(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.All(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

// Delete removes a category. Articles referencing it are detached, not
// deleted.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Category", id)
		}
		return models.NewInternalError(err)
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
