package repository

import (
	"context"
	"slices"
	"time"

	"agora/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OverviewCounts are the platform-wide totals behind the admin dashboard.
type OverviewCounts struct {
	TotalUsers       int64
	ActiveUsers      int64
	TotalIdeas       int64
	ActiveIdeas      int64
	TotalCategories  int64
	ActiveCategories int64
	TotalVotes       int64
	TotalComments    int64
	RecentIdeas      int64
}

// CategoryIdeaCount pairs a category with its number of active ideas.
type CategoryIdeaCount struct {
	Category models.Category
	Count    int64
}

// UserIdeaCount pairs an author with their number of active ideas.
type UserIdeaCount struct {
	User  models.User
	Count int64
}

// IdeaActivity is the engagement on one idea.
type IdeaActivity struct {
	Upvotes        int64
	Downvotes      int64
	ActiveComments int64
	// RecentComments holds the latest active comments, oldest first.
	RecentComments []models.Comment
}

// UserActivity is one user's contribution history.
type UserActivity struct {
	Ideas       int64
	Votes       int64
	Comments    int64
	RecentIdeas []models.Idea
	RecentVotes []models.Vote
}

// StatsRepository runs the aggregate queries.
type StatsRepository interface {
	Overview(ctx context.Context, since time.Time) (*OverviewCounts, error)
	TopCategories(ctx context.Context, limit int) ([]CategoryIdeaCount, error)
	TopUsers(ctx context.Context, limit int) ([]UserIdeaCount, error)
	IdeaActivity(ctx context.Context, ideaID uuid.UUID, recent int) (*IdeaActivity, error)
	UserActivity(ctx context.Context, userID uuid.UUID, recentIdeas, recentVotes int) (*UserActivity, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository returns a new StatsRepository implementation.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

type countQuery struct {
	dest  *int64
	model any
	where []any
}

func (r *statsRepository) count(ctx context.Context, queries []countQuery) error {
	for _, q := range queries {
		db := r.db.WithContext(ctx).Model(q.model)
		if len(q.where) > 0 {
			db = db.Where(q.where[0], q.where[1:]...)
		}
		if err := db.Count(q.dest).Error; err != nil {
			return models.NewInternalError(err)
		}
	}
	return nil
}

func (r *statsRepository) Overview(ctx context.Context, since time.Time) (*OverviewCounts, error) {
	var c OverviewCounts
	err := r.count(ctx, []countQuery{
		{&c.TotalUsers, &models.User{}, nil},
		{&c.ActiveUsers, &models.User{}, []any{"is_active = ?", true}},
		{&c.TotalIdeas, &models.Idea{}, nil},
		{&c.ActiveIdeas, &models.Idea{}, []any{"is_active = ?", true}},
		{&c.TotalCategories, &models.Category{}, nil},
		{&c.ActiveCategories, &models.Category{}, []any{"is_active = ?", true}},
		{&c.TotalVotes, &models.Vote{}, nil},
		{&c.TotalComments, &models.Comment{}, []any{"is_active = ?", true}},
		{&c.RecentIdeas, &models.Idea{}, []any{"created_at >= ?", since}},
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type groupCount struct {
	ID uuid.UUID
	N  int64
}

func (r *statsRepository) TopCategories(ctx context.Context, limit int) ([]CategoryIdeaCount, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).Model(&models.Idea{}).
		Select("ideas.category_id AS id, COUNT(*) AS n").
		Joins("JOIN categories ON categories.id = ideas.category_id").
		Where("ideas.is_active = ? AND categories.is_active = ?", true, true).
		Group("ideas.category_id").
		Order("n DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", groupIDs(rows)).Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	byID := make(map[uuid.UUID]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	out := make([]CategoryIdeaCount, 0, len(rows))
	for _, row := range rows {
		if c, ok := byID[row.ID]; ok {
			out = append(out, CategoryIdeaCount{Category: c, Count: row.N})
		}
	}
	return out, nil
}

func (r *statsRepository) TopUsers(ctx context.Context, limit int) ([]UserIdeaCount, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).Model(&models.Idea{}).
		Select("ideas.user_id AS id, COUNT(*) AS n").
		Joins("JOIN users ON users.id = ideas.user_id").
		Where("ideas.is_active = ? AND users.is_active = ?", true, true).
		Group("ideas.user_id").
		Order("n DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("id IN ?", groupIDs(rows)).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	byID := make(map[uuid.UUID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]UserIdeaCount, 0, len(rows))
	for _, row := range rows {
		if u, ok := byID[row.ID]; ok {
			out = append(out, UserIdeaCount{User: u, Count: row.N})
		}
	}
	return out, nil
}

func groupIDs(rows []groupCount) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	if len(ids) == 0 {
		// IN () is not valid SQL on every dialect.
		ids = append(ids, uuid.Nil)
	}
	return ids
}

func (r *statsRepository) IdeaActivity(ctx context.Context, ideaID uuid.UUID, recent int) (*IdeaActivity, error) {
	var a IdeaActivity
	err := r.count(ctx, []countQuery{
		{&a.Upvotes, &models.Vote{}, []any{"idea_id = ? AND vote_type = ?", ideaID, models.VoteUp}},
		{&a.Downvotes, &models.Vote{}, []any{"idea_id = ? AND vote_type = ?", ideaID, models.VoteDown}},
		{&a.ActiveComments, &models.Comment{}, []any{"idea_id = ? AND is_active = ?", ideaID, true}},
	})
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Preload("User").
		Where("idea_id = ? AND is_active = ?", ideaID, true).
		Order("created_at DESC").
		Limit(recent).
		Find(&a.RecentComments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	slices.Reverse(a.RecentComments)
	return &a, nil
}

func (r *statsRepository) UserActivity(ctx context.Context, userID uuid.UUID, recentIdeas, recentVotes int) (*UserActivity, error) {
	var a UserActivity
	err := r.count(ctx, []countQuery{
		{&a.Ideas, &models.Idea{}, []any{"user_id = ? AND is_active = ?", userID, true}},
		{&a.Votes, &models.Vote{}, []any{"user_id = ?", userID}},
		{&a.Comments, &models.Comment{}, []any{"user_id = ? AND is_active = ?", userID, true}},
	})
	if err != nil {
		return nil, err
	}

	a.RecentIdeas = []models.Idea{}
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Limit(recentIdeas).
		Find(&a.RecentIdeas).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	a.RecentVotes = []models.Vote{}
	err = r.db.WithContext(ctx).
		Preload("Idea").
		Preload("Idea.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentVotes).
		Find(&a.RecentVotes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &a, nil
}
