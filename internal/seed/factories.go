// Package seed creates demo data for development databases. Everything is
// written through the repositories so counters stay consistent with the
// rows they summarize.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agora/internal/models"
	"agora/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Factory builds domain entities with fake content and persists them.
type Factory struct {
	users    repository.UserRepository
	ideas    repository.IdeaRepository
	comments repository.CommentRepository
	votes    repository.VoteRepository

	faker        *gofakeit.Faker
	passwordHash string
	maxDays      int
	seq          int
}

// NewFactory binds a Factory to db. A zero seed picks a random one.
func NewFactory(db *gorm.DB, seed int64, maxDays int) (*Factory, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{
		users:        repository.NewUserRepository(db),
		ideas:        repository.NewIdeaRepository(db),
		comments:     repository.NewCommentRepository(db),
		votes:        repository.NewVoteRepository(db),
		faker:        gofakeit.New(seed),
		passwordHash: string(hash),
		maxDays:      maxDays,
	}, nil
}

// pastTime spreads created_at over the factory's window.
func (f *Factory) pastTime() time.Time {
	minutes := f.faker.Number(0, f.maxDays*24*60)
	return time.Now().Add(-time.Duration(minutes) * time.Minute)
}

// CreateUser persists a user with a filled-in profile.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	first, last := f.faker.FirstName(), f.faker.LastName()
	user := &models.User{
		Name:     first + " " + last,
		Email:    strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, f.seq)),
		Password: f.passwordHash,
		Profile: &models.UserProfile{
			Bio:        f.faker.Sentence(10),
			Location:   f.faker.City(),
			Occupation: f.faker.JobTitle(),
			Interests:  datatypes.JSONSlice[string]{f.faker.Hobby(), f.faker.Hobby()},
			IsPublic:   true,
		},
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

var seedStatuses = []models.IdeaStatus{
	models.IdeaStatusPending, models.IdeaStatusPending, models.IdeaStatusPending,
	models.IdeaStatusApproved, models.IdeaStatusApproved,
	models.IdeaStatusRejected,
	models.IdeaStatusImplemented,
}

// CreateIdea persists an idea by author in category.
func (f *Factory) CreateIdea(ctx context.Context, author *models.User, category *models.Category, overrides ...func(*models.Idea)) (*models.Idea, error) {
	lat, lng := f.faker.Latitude(), f.faker.Longitude()
	idea := &models.Idea{
		Title:       strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 8)), "."),
		Description: f.faker.Paragraph(1, f.faker.Number(2, 5), 12, " "),
		Location:    f.faker.Street() + ", " + f.faker.City(),
		Latitude:    &lat,
		Longitude:   &lng,
		CategoryID:  category.ID,
		UserID:      author.ID,
		Status:      seedStatuses[f.faker.Number(0, len(seedStatuses)-1)],
		Tags:        datatypes.JSONSlice[string]{f.faker.Word(), f.faker.Word()},
		IsActive:    true,
		CreatedAt:   f.pastTime(),
	}
	for _, override := range overrides {
		override(idea)
	}
	if err := f.ideas.Create(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// CreateComment persists a comment; parent may be nil for a top-level one.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, idea *models.Idea, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  f.faker.Sentence(f.faker.Number(4, 16)),
		IdeaID:   idea.ID,
		UserID:   author.ID,
		IsActive: true,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := f.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// CastVote records an up vote roughly three times out of four.
func (f *Factory) CastVote(ctx context.Context, voter *models.User, idea *models.Idea) error {
	voteType := models.VoteUp
	if f.faker.Number(1, 4) == 1 {
		voteType = models.VoteDown
	}
	_, err := f.votes.Cast(ctx, idea.ID, voter.ID, voteType)
	return err
}
