package service

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"agora/internal/cache"
	"agora/internal/models"
	"agora/internal/repository"

	"github.com/google/uuid"
)

const (
	topListSize         = 5
	recentActivitySize  = 5
	recentIdeasSize     = 3
	recentVotesSize     = 5
	activityPreviewSize = 100
	recentWindow        = 7 * 24 * time.Hour
)

type StatsService struct {
	statsRepo repository.StatsRepository
	ideaRepo  repository.IdeaRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

type Overview struct {
	TotalUsers       int64   `json:"totalUsers"`
	ActiveUsers      int64   `json:"activeUsers"`
	TotalIdeas       int64   `json:"totalIdeas"`
	ActiveIdeas      int64   `json:"activeIdeas"`
	TotalCategories  int64   `json:"totalCategories"`
	ActiveCategories int64   `json:"activeCategories"`
	TotalVotes       int64   `json:"totalVotes"`
	TotalComments    int64   `json:"totalComments"`
	RecentIdeas      int64   `json:"recentIdeas"`
	EngagementRate   float64 `json:"engagementRate"`
}

type TopCategory struct {
	Category models.Category `json:"category"`
	Count    int64           `json:"count"`
}

type TopUser struct {
	User      StatsUser `json:"user"`
	IdeaCount int64     `json:"ideaCount"`
}

// StatsUser is the public face of a user in statistics. Email is only set
// when the caller may see it.
type StatsUser struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Avatar      *string    `json:"avatar"`
	MemberSince *time.Time `json:"memberSince,omitempty"`
}

type GeneralStats struct {
	Overview      Overview      `json:"overview"`
	TopCategories []TopCategory `json:"topCategories"`
	TopUsers      []TopUser     `json:"topUsers"`
}

type IdeaSummary struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Status    models.IdeaStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

type IdeaCounters struct {
	Upvotes       int64 `json:"upvotes"`
	Downvotes     int64 `json:"downvotes"`
	TotalVotes    int64 `json:"totalVotes"`
	TotalComments int64 `json:"totalComments"`
	Engagement    int64 `json:"engagement"`
}

type ActivityAuthor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ActivityItem struct {
	User      ActivityAuthor `json:"user"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

type IdeaStats struct {
	Idea           IdeaSummary    `json:"idea"`
	Stats          IdeaCounters   `json:"stats"`
	RecentActivity []ActivityItem `json:"recentActivity"`
}

type UserCounters struct {
	TotalIdeas    int64 `json:"totalIdeas"`
	TotalVotes    int64 `json:"totalVotes"`
	TotalComments int64 `json:"totalComments"`
	Reputation    int64 `json:"reputation"`
}

type VotedIdea struct {
	ID       uuid.UUID         `json:"id"`
	Title    string            `json:"title"`
	Status   models.IdeaStatus `json:"status"`
	Category string            `json:"category"`
}

type RecentVote struct {
	Idea      *VotedIdea      `json:"idea"`
	VoteType  models.VoteType `json:"vote_type"`
	CreatedAt time.Time       `json:"created_at"`
}

type UserStats struct {
	User        StatsUser     `json:"user"`
	Stats       UserCounters  `json:"stats"`
	RecentIdeas []IdeaSummary `json:"recentIdeas"`
	RecentVotes []RecentVote  `json:"recentVotes"`
}

func NewStatsService(statsRepo repository.StatsRepository, ideaRepo repository.IdeaRepository, userRepo repository.UserRepository) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		ideaRepo:  ideaRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// General returns the admin dashboard figures, cached for a minute.
func (s *StatsService) General(ctx context.Context) (*GeneralStats, error) {
	var stats GeneralStats
	err := cache.Aside(ctx, cache.StatsOverviewKey, &stats, cache.StatsOverviewTTL, func() error {
		fresh, err := s.computeGeneral(ctx)
		if err != nil {
			return err
		}
		stats = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *StatsService) computeGeneral(ctx context.Context) (*GeneralStats, error) {
	counts, err := s.statsRepo.Overview(ctx, s.now().Add(-recentWindow))
	if err != nil {
		return nil, err
	}
	categories, err := s.statsRepo.TopCategories(ctx, topListSize)
	if err != nil {
		return nil, err
	}
	users, err := s.statsRepo.TopUsers(ctx, topListSize)
	if err != nil {
		return nil, err
	}

	out := &GeneralStats{
		Overview: Overview{
			TotalUsers:       counts.TotalUsers,
			ActiveUsers:      counts.ActiveUsers,
			TotalIdeas:       counts.TotalIdeas,
			ActiveIdeas:      counts.ActiveIdeas,
			TotalCategories:  counts.TotalCategories,
			ActiveCategories: counts.ActiveCategories,
			TotalVotes:       counts.TotalVotes,
			TotalComments:    counts.TotalComments,
			RecentIdeas:      counts.RecentIdeas,
			EngagementRate:   engagementRate(counts.TotalVotes, counts.TotalComments, counts.TotalIdeas),
		},
		TopCategories: make([]TopCategory, 0, len(categories)),
		TopUsers:      make([]TopUser, 0, len(users)),
	}
	for _, c := range categories {
		out.TopCategories = append(out.TopCategories, TopCategory{Category: c.Category, Count: c.Count})
	}
	for _, u := range users {
		out.TopUsers = append(out.TopUsers, TopUser{
			User:      statsUser(&u.User, true),
			IdeaCount: u.Count,
		})
	}
	return out, nil
}

// engagementRate is (votes+comments)/ideas rounded to two decimals.
func engagementRate(votes, comments, ideas int64) float64 {
	if ideas == 0 {
		return 0
	}
	return math.Round(float64(votes+comments)/float64(ideas)*100) / 100
}

func (s *StatsService) Idea(ctx context.Context, ideaID uuid.UUID) (*IdeaStats, error) {
	idea, err := s.ideaRepo.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	activity, err := s.statsRepo.IdeaActivity(ctx, ideaID, recentActivitySize)
	if err != nil {
		return nil, err
	}

	totalVotes := activity.Upvotes + activity.Downvotes
	out := &IdeaStats{
		Idea: IdeaSummary{
			ID:        idea.ID,
			Title:     idea.Title,
			Status:    idea.Status,
			CreatedAt: idea.CreatedAt,
		},
		Stats: IdeaCounters{
			Upvotes:       activity.Upvotes,
			Downvotes:     activity.Downvotes,
			TotalVotes:    totalVotes,
			TotalComments: activity.ActiveComments,
			Engagement:    totalVotes + activity.ActiveComments,
		},
		RecentActivity: make([]ActivityItem, 0, len(activity.RecentComments)),
	}
	for _, c := range activity.RecentComments {
		item := ActivityItem{
			User:      ActivityAuthor{ID: c.UserID},
			Content:   truncate(c.Content, activityPreviewSize),
			CreatedAt: c.CreatedAt,
		}
		if c.User != nil {
			item.User.Name = c.User.Name
		}
		out.RecentActivity = append(out.RecentActivity, item)
	}
	return out, nil
}

// User returns a user's contribution figures. The email is included only
// when the viewer is the user or an administrator.
func (s *StatsService) User(ctx context.Context, viewer *Actor, userID uuid.UUID) (*UserStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	activity, err := s.statsRepo.UserActivity(ctx, userID, recentIdeasSize, recentVotesSize)
	if err != nil {
		return nil, err
	}

	showEmail := viewer != nil && viewer.Owns(userID)
	stats := statsUser(user, showEmail)
	stats.MemberSince = &user.CreatedAt

	out := &UserStats{
		User: stats,
		Stats: UserCounters{
			TotalIdeas:    activity.Ideas,
			TotalVotes:    activity.Votes,
			TotalComments: activity.Comments,
			Reputation:    activity.Ideas*10 + activity.Votes*2 + activity.Comments,
		},
		RecentIdeas: make([]IdeaSummary, 0, len(activity.RecentIdeas)),
		RecentVotes: make([]RecentVote, 0, len(activity.RecentVotes)),
	}
	for _, i := range activity.RecentIdeas {
		out.RecentIdeas = append(out.RecentIdeas, IdeaSummary{
			ID:        i.ID,
			Title:     i.Title,
			Status:    i.Status,
			CreatedAt: i.CreatedAt,
		})
	}
	for _, v := range activity.RecentVotes {
		rv := RecentVote{VoteType: v.VoteType, CreatedAt: v.CreatedAt}
		if v.Idea != nil {
			rv.Idea = &VotedIdea{ID: v.Idea.ID, Title: v.Idea.Title, Status: v.Idea.Status}
			if v.Idea.Category != nil {
				rv.Idea.Category = v.Idea.Category.Name
			}
		}
		out.RecentVotes = append(out.RecentVotes, rv)
	}
	return out, nil
}

func statsUser(u *models.User, withEmail bool) StatsUser {
	out := StatsUser{ID: u.ID, Name: u.Name}
	if withEmail {
		out.Email = u.Email
	}
	avatar := u.Avatar
	if avatar == "" && u.Profile != nil {
		avatar = u.Profile.Avatar
	}
	if avatar != "" {
		out.Avatar = &avatar
	}
	return out
}

// truncate cuts s to max characters, marking the cut with "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
