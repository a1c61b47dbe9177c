package repository

import (
	"context"

	"agora/internal/cache"
	"agora/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteRepository applies the toggle/switch voting rules.
type VoteRepository interface {
	// Cast records voteType for the user on an active idea: a first vote
	// is created, the same type again removes it and the opposite type
	// switches it. The idea's tallies are recomputed from the vote rows
	// in the same transaction.
	Cast(ctx context.Context, ideaID, userID uuid.UUID, voteType models.VoteType) (*models.VoteResult, error)
	// Get returns the user's vote on an idea, or (nil, nil).
	Get(ctx context.Context, ideaID, userID uuid.UUID) (*models.Vote, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Cast(ctx context.Context, ideaID, userID uuid.UUID, voteType models.VoteType) (*models.VoteResult, error) {
	result, err := r.cast(ctx, ideaID, userID, voteType)
	if isUniqueConstraintError(err) {
		// A concurrent first vote by the same user won the insert; the
		// retry sees its row and toggles or switches it.
		result, err = r.cast(ctx, ideaID, userID, voteType)
	}
	if err != nil {
		return nil, mapTxError(err)
	}
	cache.InvalidateIdea(ctx, ideaID)
	return result, nil
}

func (r *voteRepository) cast(ctx context.Context, ideaID, userID uuid.UUID, voteType models.VoteType) (*models.VoteResult, error) {
	var result models.VoteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Idea{}).
			Where("id = ? AND is_active = ?", ideaID, true).
			Count(&active).Error; err != nil {
			return err
		}
		if active == 0 {
			return models.NewNotFoundError("Idea", ideaID)
		}

		var existing models.Vote
		err := tx.Where("idea_id = ? AND user_id = ?", ideaID, userID).First(&existing).Error
		switch {
		case isNotFound(err):
			vote := models.Vote{IdeaID: ideaID, UserID: userID, VoteType: voteType}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			result.Outcome = models.VoteCreated
			result.UserVote = &vote.VoteType
		case err != nil:
			return err
		case existing.VoteType == voteType:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result.Outcome = models.VoteRemoved
		default:
			if err := tx.Model(&existing).Update("vote_type", voteType).Error; err != nil {
				return err
			}
			result.Outcome = models.VoteSwitched
			result.UserVote = &voteType
		}

		up, down, err := recountVotes(tx, ideaID)
		if err != nil {
			return err
		}
		result.Upvotes, result.Downvotes = up, down
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// recountVotes recomputes an idea's tallies from its vote rows and persists
// them.
func recountVotes(tx *gorm.DB, ideaID uuid.UUID) (up, down int, err error) {
	var rows []struct {
		VoteType models.VoteType
		N        int
	}
	err = tx.Model(&models.Vote{}).
		Select("vote_type, COUNT(*) AS n").
		Where("idea_id = ?", ideaID).
		Group("vote_type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}
	for _, row := range rows {
		switch row.VoteType {
		case models.VoteUp:
			up = row.N
		case models.VoteDown:
			down = row.N
		}
	}
	err = tx.Model(&models.Idea{}).
		Where("id = ?", ideaID).
		UpdateColumns(map[string]any{"upvotes": up, "downvotes": down}).Error
	return up, down, err
}

func (r *voteRepository) Get(ctx context.Context, ideaID, userID uuid.UUID) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).Where("idea_id = ? AND user_id = ?", ideaID, userID).First(&vote).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &vote, nil
}
