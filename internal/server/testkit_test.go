package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agora/internal/config"
	"agora/internal/models"
	"agora/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// testApp is a fully wired server over SQLite and miniredis.
type testApp struct {
	t   *testing.T
	s   *Server
	mr  *miniredis.Miniredis
	seq int
}

func newTestApp(t *testing.T, flags ...string) *testApp {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTTTL:           time.Hour,
		JWTIssuer:        "agora-test",
		JWTAudience:      "agora-test",
		Env:              "test",
		UploadDir:        t.TempDir(),
		MaxUploadMB:      1,
		PasswordResetTTL: time.Hour,
	}
	if len(flags) > 0 {
		cfg.FeatureFlags = flags[0]
	}

	s := NewServer(cfg, db, rdb)
	s.App()
	return &testApp{t: t, s: s, mr: mr}
}

// user inserts an active user directly and returns it with a valid token.
func (a *testApp) user(name string) (*models.User, string) {
	a.t.Helper()
	a.seq++
	u := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("member%d@example.com", a.seq),
		Password: "unused",
	}
	ctx := context.Background()
	require.NoError(a.t, a.s.db.WithContext(ctx).Create(u).Error)
	token, _, err := a.s.tokens.Issue(u.ID, u.Email)
	require.NoError(a.t, err)
	return u, token
}

func (a *testApp) admin(name string) (*models.User, string) {
	a.t.Helper()
	u, token := a.user(name)
	require.NoError(a.t, a.s.db.Model(u).Update("is_admin", true).Error)
	u.IsAdmin = true
	return u, token
}

func (a *testApp) category(name string) *models.Category {
	a.t.Helper()
	c := &models.Category{Name: name, Color: "#007bff", IsActive: true}
	require.NoError(a.t, a.s.db.Create(c).Error)
	return c
}

// idea creates an idea through the API and returns its id.
func (a *testApp) idea(token string, categoryID fmt.Stringer, title string) string {
	a.t.Helper()
	status, body := a.call(http.MethodPost, "/api/ideas", token, map[string]any{
		"title":       title,
		"description": "A description that is comfortably long enough.",
		"location":    "Centro",
		"category_id": categoryID.String(),
	})
	require.Equal(a.t, http.StatusCreated, status, body)
	return body["idea"].(map[string]any)["id"].(string)
}

// call sends a JSON request and decodes the JSON response.
func (a *testApp) call(method, path, token string, payload any) (int, map[string]any) {
	a.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(a.t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.do(req, token)
}

func (a *testApp) do(req *http.Request, token string) (int, map[string]any) {
	a.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.s.App().Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}
