package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUserProfile(t *testing.T) {
	app := newTestApp(t)
	u, token := app.user("Ana")
	path := "/api/users/" + u.ID.String()

	status, body := app.call(http.MethodPut, path, token, map[string]any{
		"name":      "Ana Souza",
		"bio":       "Moradora do centro",
		"interests": "urbanismo, cultura, ",
	})
	require.Equal(t, http.StatusOK, status, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Ana Souza", user["name"])
	profile := user["profile"].(map[string]any)
	assert.Equal(t, []any{"urbanismo", "cultura"}, profile["interests"])

	status, body = app.call(http.MethodPut, path, token, map[string]any{
		"interests": []string{"mobilidade"},
	})
	require.Equal(t, http.StatusOK, status, body)
	profile = body["user"].(map[string]any)["profile"].(map[string]any)
	assert.Equal(t, []any{"mobilidade"}, profile["interests"])
}

func TestUserEndpointsRespectOwnership(t *testing.T) {
	app := newTestApp(t)
	owner, _ := app.user("Ana")
	_, otherToken := app.user("Bruno")
	_, adminToken := app.admin("Root")
	path := "/api/users/" + owner.ID.String()

	status, _ := app.call(http.MethodPut, path, otherToken, map[string]string{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = app.call(http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = app.call(http.MethodGet, "/api/users", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := app.call(http.MethodGet, "/api/users?sort=name", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), body["total"])

	status, _ = app.call(http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestUploadAvatarRequiresFile(t *testing.T) {
	app := newTestApp(t)
	u, token := app.user("Ana")

	status, body := app.call(http.MethodPost, "/api/users/"+u.ID.String()+"/avatar", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No file uploaded", body["error"])
}
