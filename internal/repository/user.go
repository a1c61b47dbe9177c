package repository

import (
	"context"
	"fmt"
	"time"

	"agora/internal/cache"
	"agora/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Search string
	// Sort is one of recent, oldest or name.
	Sort string
	Page
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetByEmail returns the active user with email, or (nil, nil).
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// SaveWithProfile writes the user row and its profile in one
	// transaction.
	SaveWithProfile(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, user *models.User, at time.Time) error
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Search(ctx context.Context, term string, page Page) ([]models.User, int64, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expires time.Time) error
	// GetByResetToken returns the active user holding an unexpired token
	// hash, or (nil, nil).
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetAdmin(ctx context.Context, id uuid.UUID, admin bool) error
	ListAdmins(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("email = ? AND is_active = ?", email, true).
		First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// Create inserts the user and an empty profile in one transaction.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		profile := user.Profile
		if profile == nil {
			profile = &models.UserProfile{}
		}
		profile.UserID = user.ID
		if profile.Interests == nil {
			profile.Interests = datatypes.JSONSlice[string]{}
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already registered")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) SaveWithProfile(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}
		if user.Profile == nil {
			return nil
		}
		user.Profile.UserID = user.ID
		if user.Profile.Interests == nil {
			user.Profile.Interests = datatypes.JSONSlice[string]{}
		}
		return tx.Save(user.Profile).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already registered")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateIdeaDetails(ctx)
	return nil
}

// SoftDelete deactivates the user and frees their email for reuse.
func (r *userRepository) SoftDelete(ctx context.Context, user *models.User, at time.Time) error {
	mangled := fmt.Sprintf("deleted_%d_%s", at.UnixMilli(), user.Email)
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{"is_active": false, "email": mangled}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	user.IsActive = false
	user.Email = mangled
	cache.InvalidateIdeaDetails(ctx)
	return nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.User{}).Where("is_active = ?", true)
		if filter.Search != "" {
			op := likeOp(db)
			pattern := likePattern(filter.Search)
			db = db.Where(fmt.Sprintf("(name %s ? OR email %s ?)", op, op), pattern, pattern)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	order := "created_at DESC"
	switch filter.Sort {
	case "oldest":
		order = "created_at ASC"
	case "name":
		order = "name ASC"
	}

	var users []models.User
	err := r.db.WithContext(ctx).Scopes(scope).
		Preload("Profile").
		Order(order).
		Limit(filter.size()).
		Offset(filter.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

// Search matches active users by name or email.
func (r *userRepository) Search(ctx context.Context, term string, page Page) ([]models.User, int64, error) {
	return r.List(ctx, UserFilter{Search: term, Sort: "name", Page: page})
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expires time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_reset_token":   tokenHash,
			"password_reset_expires": expires,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("password_reset_token = ? AND password_reset_expires > ? AND is_active = ?", tokenHash, now, true).
		First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// UpdatePassword stores a new hash and consumes any pending reset token.
func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password":               passwordHash,
			"password_reset_token":   nil,
			"password_reset_expires": nil,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) SetAdmin(ctx context.Context, id uuid.UUID, admin bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_admin", admin)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("is_admin = ? AND is_active = ?", true, true).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
