package service

import (
	"context"
	"strings"

	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/validation"

	"github.com/google/uuid"
)

const defaultCategoryColor = "#007bff"

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// CategoryInput is a create or partial update; nil fields are left alone
// on update.
type CategoryInput struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
	IsActive    *bool
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.ListActive(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, models.NewMissingFieldsError([]string{"name"})
	}
	category := &models.Category{Color: defaultCategoryColor, IsActive: true}
	if err := applyCategoryInput(category, in); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCategoryInput(category, in); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

func applyCategoryInput(c *models.Category, in CategoryInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.ValidateCategoryName(name); err != nil {
			return models.NewValidationError(err.Error())
		}
		c.Name = name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if err := validation.Length("description", desc, 0, validation.CategoryDescMax); err != nil {
			return models.NewValidationError(err.Error())
		}
		c.Description = desc
	}
	if in.Icon != nil {
		icon := strings.TrimSpace(*in.Icon)
		if err := validation.Length("icon", icon, 0, validation.CategoryIconMax); err != nil {
			return models.NewValidationError(err.Error())
		}
		c.Icon = icon
	}
	if in.Color != nil && strings.TrimSpace(*in.Color) != "" {
		color := strings.TrimSpace(*in.Color)
		if err := validation.ValidateColor(color); err != nil {
			return models.NewValidationError(err.Error())
		}
		c.Color = color
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}
