package seed

import (
	"context"
	"regexp"
	"testing"

	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCategories(t *testing.T) {
	cats, err := DefaultCategories()
	require.NoError(t, err)
	require.Len(t, cats, 7)

	hex := regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	names := map[string]bool{}
	for _, c := range cats {
		assert.Regexp(t, hex, c.Color, c.Name)
		assert.NotEmpty(t, c.Icon, c.Name)
		assert.True(t, c.IsActive)
		assert.False(t, names[c.Name], "duplicate %s", c.Name)
		names[c.Name] = true
	}
}

func TestEnsureCategoriesIsIdempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewCategoryRepository(db)
	ctx := context.Background()

	_, created, err := EnsureCategories(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 7, created)

	cats, created, err := EnsureCategories(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	for _, c := range cats {
		assert.NotEmpty(t, c.ID)
	}

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(7), count)
}

func TestSeedKeepsCountersConsistent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	summary, err := Seed(ctx, db, Options{
		NumUsers:    4,
		NumIdeas:    6,
		MaxComments: 3,
		MaxVotes:    4,
		RandSeed:    42,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Users)
	assert.Equal(t, 6, summary.Ideas)

	var ideas []models.Idea
	require.NoError(t, db.Find(&ideas).Error)
	require.Len(t, ideas, 6)
	for _, idea := range ideas {
		var up, down, comments int64
		require.NoError(t, db.Model(&models.Vote{}).Where("idea_id = ? AND vote_type = ?", idea.ID, models.VoteUp).Count(&up).Error)
		require.NoError(t, db.Model(&models.Vote{}).Where("idea_id = ? AND vote_type = ?", idea.ID, models.VoteDown).Count(&down).Error)
		require.NoError(t, db.Model(&models.Comment{}).Where("idea_id = ? AND is_active = ?", idea.ID, true).Count(&comments).Error)
		assert.Equal(t, int(up), idea.Upvotes)
		assert.Equal(t, int(down), idea.Downvotes)
		assert.Equal(t, int(comments), idea.CommentCount)
	}

	var votes int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&votes).Error)
	assert.Equal(t, int64(summary.Votes), votes)
}

func TestSeedCleanKeepsAdmins(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)

	admin := &models.User{Name: "Root", Email: "root@example.com", Password: "x"}
	require.NoError(t, users.Create(ctx, admin))
	require.NoError(t, users.SetAdmin(ctx, admin.ID, true))

	_, err := Seed(ctx, db, Options{NumUsers: 3, NumIdeas: 2, RandSeed: 7})
	require.NoError(t, err)

	summary, err := Seed(ctx, db, Options{NumUsers: 2, Clean: true, RandSeed: 8})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Categories)

	var userCount, ideaCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Idea{}).Count(&ideaCount).Error)
	assert.Equal(t, int64(3), userCount)
	assert.Equal(t, int64(0), ideaCount)

	_, err = users.GetByID(ctx, admin.ID)
	assert.NoError(t, err)
}
