package repository

import (
	"context"
	"fmt"

	"agora/internal/cache"
	"agora/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	// Delete removes the category unless an idea still references it.
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, term string, limit int) ([]models.Category, error)
	// Ensure creates the category when no row with its name exists.
	Ensure(ctx context.Context, category *models.Category) (bool, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := cache.Aside(ctx, cache.CategoriesActiveKey, &categories, cache.CategoriesTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("is_active = ?", true).
			Order("name ASC").
			Find(&categories).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Category name already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Category name already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return models.NewNotFoundError("Category", id)
			}
			return err
		}

		var ideas int64
		if err := tx.Model(&models.Idea{}).Where("category_id = ?", id).Count(&ideas).Error; err != nil {
			return err
		}
		if ideas > 0 {
			return models.NewConflictError("Cannot delete category with existing ideas")
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		return mapTxError(err)
	}
	cache.InvalidateCategories(ctx)
	return nil
}

func (r *categoryRepository) Search(ctx context.Context, term string, limit int) ([]models.Category, error) {
	var categories []models.Category
	op := likeOp(r.db)
	pattern := likePattern(term)
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(fmt.Sprintf("(name %s ? OR description %s ?)", op, op), pattern, pattern).
		Order("name ASC").
		Limit(Page{Limit: limit}.size()).
		Find(&categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (r *categoryRepository) Ensure(ctx context.Context, category *models.Category) (bool, error) {
	var existing models.Category
	err := r.db.WithContext(ctx).Where("name = ?", category.Name).First(&existing).Error
	if err == nil {
		*category = existing
		return false, nil
	}
	if !isNotFound(err) {
		return false, models.NewInternalError(err)
	}
	if err := r.Create(ctx, category); err != nil {
		return false, err
	}
	return true, nil
}
