package repository

import (
	"context"
	"errors"
	"fmt"

	"agora/internal/cache"
	"agora/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	// ListTopLevel pages an idea's active top-level comments, oldest first,
	// each with its active replies.
	ListTopLevel(ctx context.Context, ideaID uuid.UUID, page Page) ([]models.Comment, int64, error)
	// GetByID returns an active comment.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	SoftDelete(ctx context.Context, comment *models.Comment) error
	Search(ctx context.Context, term string, page Page) ([]models.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func activeOldestFirst(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("created_at ASC")
}

func (r *commentRepository) ListTopLevel(ctx context.Context, ideaID uuid.UUID, page Page) ([]models.Comment, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Comment{}).
			Where("idea_id = ? AND is_active = ? AND parent_id IS NULL", ideaID, true)
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	comments := []models.Comment{}
	err := r.db.WithContext(ctx).Scopes(scope).
		Preload("User").
		Preload("Replies", activeOldestFirst).
		Preload("Replies.User").
		Order("created_at ASC").
		Limit(page.size()).
		Offset(page.Offset()).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ? AND is_active = ?", id, true).
		First(&comment).Error
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// Create inserts the comment and recounts the idea's comments. A reply to
// a reply is re-parented onto the thread's top-level comment.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Idea{}).
			Where("id = ? AND is_active = ?", comment.IdeaID, true).
			Count(&active).Error; err != nil {
			return err
		}
		if active == 0 {
			return models.NewNotFoundError("Idea", comment.IdeaID)
		}

		if comment.ParentID != nil {
			var parent models.Comment
			err := tx.Where("id = ? AND idea_id = ? AND is_active = ?", *comment.ParentID, comment.IdeaID, true).
				First(&parent).Error
			if isNotFound(err) {
				return models.NewValidationError("Parent comment not found")
			}
			if err != nil {
				return err
			}
			if parent.ParentID != nil {
				comment.ParentID = parent.ParentID
			}
		}

		if err := tx.Omit("User", "Replies").Create(comment).Error; err != nil {
			return err
		}
		return recountComments(tx, comment.IdeaID)
	})
	if err != nil {
		return mapTxError(err)
	}
	cache.InvalidateIdea(ctx, comment.IdeaID)
	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(comment).
			Select("content", "is_active", "updated_at").
			Updates(comment).Error; err != nil {
			return err
		}
		return recountComments(tx, comment.IdeaID)
	})
	if err != nil {
		return mapTxError(err)
	}
	cache.InvalidateIdea(ctx, comment.IdeaID)
	return nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, comment *models.Comment) error {
	comment.IsActive = false
	return r.Update(ctx, comment)
}

func (r *commentRepository) Search(ctx context.Context, term string, page Page) ([]models.Comment, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Comment{}).
			Where("is_active = ?", true).
			Where(fmt.Sprintf("content %s ?", likeOp(db)), likePattern(term))
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var comments []models.Comment
	err := r.db.WithContext(ctx).Scopes(scope).
		Preload("User").
		Order("created_at DESC").
		Limit(page.size()).
		Offset(page.Offset()).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}

// recountComments stores the live count of active comments, replies
// included, on the idea.
func recountComments(tx *gorm.DB, ideaID uuid.UUID) error {
	var n int64
	if err := tx.Model(&models.Comment{}).
		Where("idea_id = ? AND is_active = ?", ideaID, true).
		Count(&n).Error; err != nil {
		return err
	}
	return tx.Model(&models.Idea{}).
		Where("id = ?", ideaID).
		UpdateColumn("comment_count", n).Error
}

// mapTxError passes AppErrors raised inside a transaction through and wraps
// everything else as internal.
func mapTxError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
