package seed

import (
	"context"
	"fmt"

	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/repository"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers int
	NumIdeas int
	// MaxComments and MaxVotes bound the per-idea activity.
	MaxComments int
	MaxVotes    int
	MaxDays     int
	// Clean removes existing ideas, votes, comments and non-admin users
	// first. Categories and admins are kept.
	Clean bool
	// RandSeed makes a run reproducible; zero is random.
	RandSeed int64
}

// Summary counts what a run created.
type Summary struct {
	Categories int
	Users      int
	Ideas      int
	Comments   int
	Votes      int
}

func (s Summary) String() string {
	return fmt.Sprintf("categories=%d users=%d ideas=%d comments=%d votes=%d",
		s.Categories, s.Users, s.Ideas, s.Comments, s.Votes)
}

// Seed populates db with demo data.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	log := middleware.Logger
	log.Info("seeding database", "users", opts.NumUsers, "ideas", opts.NumIdeas, "clean", opts.Clean)

	if opts.Clean {
		if err := clearData(ctx, db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	categories, created, err := EnsureCategories(ctx, repository.NewCategoryRepository(db))
	if err != nil {
		return nil, err
	}
	summary := &Summary{Categories: created}

	f, err := NewFactory(db, opts.RandSeed, opts.MaxDays)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return summary, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	summary.Users = len(users)
	if len(users) == 0 || opts.NumIdeas == 0 {
		log.Info("seeding complete", "summary", summary.String())
		return summary, nil
	}

	for i := 0; i < opts.NumIdeas; i++ {
		author := users[f.faker.Number(0, len(users)-1)]
		category := &categories[f.faker.Number(0, len(categories)-1)]
		idea, err := f.CreateIdea(ctx, author, category)
		if err != nil {
			return summary, fmt.Errorf("create idea: %w", err)
		}
		summary.Ideas++

		var threads []*models.Comment
		for n := f.faker.Number(0, opts.MaxComments); n > 0; n-- {
			var parent *models.Comment
			if len(threads) > 0 && f.faker.Bool() {
				parent = threads[f.faker.Number(0, len(threads)-1)]
			}
			c, err := f.CreateComment(ctx, users[f.faker.Number(0, len(users)-1)], idea, parent)
			if err != nil {
				return summary, fmt.Errorf("create comment: %w", err)
			}
			if parent == nil {
				threads = append(threads, c)
			}
			summary.Comments++
		}

		voters := f.faker.Number(0, min(opts.MaxVotes, len(users)))
		for _, idx := range f.pick(len(users), voters) {
			if err := f.CastVote(ctx, users[idx], idea); err != nil {
				return summary, fmt.Errorf("cast vote: %w", err)
			}
			summary.Votes++
		}
	}

	log.Info("seeding complete", "summary", summary.String())
	return summary, nil
}

// pick returns k distinct indexes below n.
func (f *Factory) pick(n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	f.faker.ShuffleInts(idx)
	return idx[:k]
}

func clearData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&models.Vote{}, &models.Comment{}, &models.IdeaImage{}, &models.Idea{}} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		nonAdmins := tx.Model(&models.User{}).Select("id").Where("is_admin = ?", false)
		if err := tx.Where("user_id IN (?)", nonAdmins).Delete(&models.UserProfile{}).Error; err != nil {
			return err
		}
		return tx.Where("is_admin = ?", false).Delete(&models.User{}).Error
	})
}
