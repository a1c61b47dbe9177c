package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"agora/internal/config"
	"agora/internal/featureflags"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/notifications"
	"agora/internal/repository"
	"agora/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// harness wires every service over a private SQLite database.
type harness struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	rdb *redis.Client

	users      repository.UserRepository
	categories repository.CategoryRepository
	ideasRepo  repository.IdeaRepository

	auth        *AuthService
	userSvc     *UserService
	categorySvc *CategoryService
	ideas       *IdeaService
	votes       *VoteService
	comments    *CommentService
	search      *SearchService
	stats       *StatsService
	mailer      *recordingMailer

	seq int
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	flags  string
	events bool
}

func withFlags(raw string) harnessOption {
	return func(c *harnessConfig) { c.flags = raw }
}

// withEvents publishes idea events to the harness Redis.
func withEvents() harnessOption {
	return func(c *harnessConfig) { c.events = true }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	var hc harnessConfig
	for _, opt := range opts {
		opt(&hc)
	}

	db := testutil.NewSQLiteDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var notifier *notifications.Notifier
	if hc.events {
		notifier = notifications.NewNotifier(rdb)
	}

	cfg := &config.Config{
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
		JWTIssuer:   "agora-test",
		JWTAudience: "agora-test",
		UploadDir:   t.TempDir(),
		MaxUploadMB: 1,
	}

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	ideas := repository.NewIdeaRepository(db)
	votes := repository.NewVoteRepository(db)
	comments := repository.NewCommentRepository(db)
	stats := repository.NewStatsRepository(db)
	images := NewImageService(cfg)
	mailer := &recordingMailer{}

	return &harness{
		t:           t,
		ctx:         context.Background(),
		db:          db,
		rdb:         rdb,
		users:       users,
		categories:  categories,
		ideasRepo:   ideas,
		auth:        NewAuthService(users, middleware.NewTokenManager(cfg), rdb, mailer, time.Hour),
		userSvc:     NewUserService(users, images),
		categorySvc: NewCategoryService(categories),
		ideas:       NewIdeaService(ideas, categories, images, featureflags.NewManager(hc.flags), notifier),
		votes:       NewVoteService(votes, ideas, notifier),
		comments:    NewCommentService(comments, ideas, notifier),
		search:      NewSearchService(ideas, users, comments, categories),
		stats:       NewStatsService(stats, ideas, users),
		mailer:      mailer,
	}
}

func (h *harness) user(name string) *models.User {
	h.t.Helper()
	h.seq++
	u := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("user%d@example.com", h.seq),
		Password: "x",
	}
	require.NoError(h.t, h.users.Create(h.ctx, u))
	return u
}

func (h *harness) admin(name string) *models.User {
	h.t.Helper()
	u := h.user(name)
	require.NoError(h.t, h.users.SetAdmin(h.ctx, u.ID, true))
	u.IsAdmin = true
	return u
}

func (h *harness) category(name string) *models.Category {
	h.t.Helper()
	c := &models.Category{Name: name, Color: "#007bff"}
	require.NoError(h.t, h.categories.Create(h.ctx, c))
	return c
}

func (h *harness) idea(author *models.User, category *models.Category, title string) *models.Idea {
	h.t.Helper()
	idea, err := h.ideas.Create(h.ctx, author.ID, CreateIdeaInput{
		Title:       title,
		Description: "A description that is comfortably long enough.",
		Location:    "Centro",
		CategoryID:  category.ID.String(),
	})
	require.NoError(h.t, err)
	return idea
}

func actorOf(u *models.User) Actor {
	return Actor{ID: u.ID, IsAdmin: u.IsAdmin}
}

type sentReset struct {
	to, token string
	expires   time.Time
}

type recordingMailer struct {
	sent []sentReset
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to, _, token string, expires time.Time) error {
	m.sent = append(m.sent, sentReset{to: to, token: token, expires: expires})
	return nil
}
