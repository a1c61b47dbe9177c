package repository

import (
	"context"
	"testing"

	"agora/internal/models"
	"agora/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

type fixtures struct {
	t   *testing.T
	db  *gorm.DB
	ctx context.Context
}

func newFixtures(t *testing.T) *fixtures {
	return &fixtures{t: t, db: testutil.NewSQLiteDB(t), ctx: context.Background()}
}

func (f *fixtures) user(name, email string) *models.User {
	f.t.Helper()
	u := &models.User{Name: name, Email: email, Password: "hash"}
	require.NoError(f.t, NewUserRepository(f.db).Create(f.ctx, u))
	return u
}

func (f *fixtures) category(name string) *models.Category {
	f.t.Helper()
	c := &models.Category{Name: name, Color: "#007bff"}
	require.NoError(f.t, NewCategoryRepository(f.db).Create(f.ctx, c))
	return c
}

func (f *fixtures) idea(title string, author *models.User, category *models.Category) *models.Idea {
	f.t.Helper()
	i := &models.Idea{
		Title:       title,
		Description: "A description long enough to be accepted.",
		Location:    "Centro",
		CategoryID:  category.ID,
		UserID:      author.ID,
		Tags:        datatypes.JSONSlice[string]{},
	}
	require.NoError(f.t, NewIdeaRepository(f.db).Create(f.ctx, i))
	return i
}

func (f *fixtures) comment(idea *models.Idea, author *models.User, content string, parent *uuid.UUID) *models.Comment {
	f.t.Helper()
	c := &models.Comment{IdeaID: idea.ID, UserID: author.ID, Content: content, ParentID: parent}
	require.NoError(f.t, NewCommentRepository(f.db).Create(f.ctx, c))
	return c
}

func (f *fixtures) reloadIdea(id uuid.UUID) *models.Idea {
	f.t.Helper()
	idea, err := NewIdeaRepository(f.db).GetByID(f.ctx, id)
	require.NoError(f.t, err)
	return idea
}
