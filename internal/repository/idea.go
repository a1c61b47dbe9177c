package repository

import (
	"context"
	"fmt"

	"agora/internal/cache"
	"agora/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Idea listing sort keys.
const (
	SortRecent   = "recent"
	SortOldest   = "oldest"
	SortVotes    = "votes"
	SortComments = "comments"
)

// IdeaFilter narrows an active-idea listing. Zero fields are ignored.
type IdeaFilter struct {
	CategoryID *uuid.UUID
	UserID     *uuid.UUID
	Status     models.IdeaStatus
	Search     string
	Sort       string
	// Viewer, when set, fills Idea.UserVote.
	Viewer *uuid.UUID
	Page
}

// IdeaRepository defines persistence operations for ideas and their images.
type IdeaRepository interface {
	List(ctx context.Context, filter IdeaFilter) ([]models.Idea, int64, error)
	// GetDetail loads one idea regardless of is_active, with its category,
	// author, images and active comment threads.
	GetDetail(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*models.Idea, error)
	// GetByID loads the bare row regardless of is_active.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	// GetActive loads the bare row, treating inactive ideas as missing.
	GetActive(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	Create(ctx context.Context, idea *models.Idea) error
	Update(ctx context.Context, idea *models.Idea) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AddImage(ctx context.Context, image *models.IdeaImage) error
}

type ideaRepository struct {
	db *gorm.DB
}

// NewIdeaRepository returns a new IdeaRepository implementation.
func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

// withUserVote selects every idea column plus the viewer's vote, if any.
func withUserVote(viewer *uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewer == nil {
			return db.Select("ideas.*, NULL AS user_vote")
		}
		return db.Select(
			"ideas.*, (SELECT vote_type FROM votes WHERE votes.idea_id = ideas.id AND votes.user_id = ?) AS user_vote",
			*viewer,
		)
	}
}

func orderIdeas(sort string) string {
	switch sort {
	case SortOldest:
		return "ideas.created_at ASC"
	case SortVotes:
		return "(ideas.upvotes - ideas.downvotes) DESC, ideas.upvotes DESC, ideas.created_at DESC"
	case SortComments:
		return "ideas.comment_count DESC, ideas.created_at DESC"
	default:
		return "ideas.created_at DESC"
	}
}

func (r *ideaRepository) List(ctx context.Context, filter IdeaFilter) ([]models.Idea, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.Idea{}).Where("ideas.is_active = ?", true)
		if filter.CategoryID != nil {
			db = db.Where("ideas.category_id = ?", *filter.CategoryID)
		}
		if filter.UserID != nil {
			db = db.Where("ideas.user_id = ?", *filter.UserID)
		}
		if filter.Status != "" {
			db = db.Where("ideas.status = ?", filter.Status)
		}
		if filter.Search != "" {
			op := likeOp(db)
			pattern := likePattern(filter.Search)
			db = db.Where(
				fmt.Sprintf("(ideas.title %s ? OR ideas.description %s ? OR ideas.location %s ?)", op, op, op),
				pattern, pattern, pattern,
			)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	ideas := []models.Idea{}
	err := r.db.WithContext(ctx).
		Scopes(scope, withUserVote(filter.Viewer)).
		Preload("Category").
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC")
		}).
		Order(orderIdeas(filter.Sort)).
		Limit(filter.size()).
		Offset(filter.Offset()).
		Find(&ideas).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return ideas, total, nil
}

func (r *ideaRepository) GetDetail(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*models.Idea, error) {
	var idea models.Idea
	load := func() error {
		err := r.db.WithContext(ctx).
			Scopes(withUserVote(viewer)).
			Preload("Category").
			Preload("User").
			Preload("Images", func(db *gorm.DB) *gorm.DB {
				return db.Order("is_primary DESC, sort_order ASC")
			}).
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return activeOldestFirst(db).Where("parent_id IS NULL")
			}).
			Preload("Comments.User").
			Preload("Comments.Replies", activeOldestFirst).
			Preload("Comments.Replies.User").
			First(&idea, "ideas.id = ?", id).Error
		if err != nil {
			if isNotFound(err) {
				return models.NewNotFoundError("Idea", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	// Per-viewer state cannot be shared, so only anonymous reads are cached.
	if viewer != nil {
		if err := load(); err != nil {
			return nil, err
		}
		return &idea, nil
	}
	if err := cache.Aside(ctx, cache.IdeaKey(id), &idea, cache.IdeaTTL, load); err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *ideaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	var idea models.Idea
	if err := r.db.WithContext(ctx).First(&idea, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Idea", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &idea, nil
}

func (r *ideaRepository) GetActive(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	idea, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !idea.IsActive {
		return nil, models.NewNotFoundError("Idea", id)
	}
	return idea, nil
}

func (r *ideaRepository) Create(ctx context.Context, idea *models.Idea) error {
	if err := r.db.WithContext(ctx).Omit("Category", "User", "Images", "Comments").Create(idea).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.StatsOverviewKey)
	return nil
}

// Update writes the author-editable fields and status. Counters are owned
// by the vote and comment recounts and are never written here.
func (r *ideaRepository) Update(ctx context.Context, idea *models.Idea) error {
	err := r.db.WithContext(ctx).Model(idea).
		Select("title", "description", "location", "category_id", "latitude", "longitude", "tags", "status", "updated_at").
		Updates(idea).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIdea(ctx, idea.ID)
	return nil
}

func (r *ideaRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Idea{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Idea", id)
	}
	cache.InvalidateIdea(ctx, id)
	return nil
}

func (r *ideaRepository) AddImage(ctx context.Context, image *models.IdeaImage) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIdea(ctx, image.IdeaID)
	return nil
}
