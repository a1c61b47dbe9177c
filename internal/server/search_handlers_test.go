package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	app := newTestApp(t)
	cat := app.category("Urbanismo")
	_, token := app.user("Ana")
	_, adminToken := app.admin("Root")
	app.idea(token, cat.ID, "Reforma da Praça")

	status, body := app.call(http.MethodGet, "/api/search?q=a", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	status, _ = app.call(http.MethodGet, "/api/search?q=reforma&type=everything", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = app.call(http.MethodGet, "/api/search?q=reforma", "", nil)
	require.Equal(t, http.StatusOK, status)
	results := body["results"].(map[string]any)
	assert.Len(t, results["ideas"], 1)
	assert.Empty(t, results["users"])
	assert.Equal(t, float64(1), body["pagination"].(map[string]any)["total"])

	// Users are only searchable by admins.
	status, body = app.call(http.MethodGet, "/api/search?q=ana&type=users", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["results"].(map[string]any)["users"])

	status, body = app.call(http.MethodGet, "/api/search?q=ana&type=users", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["results"].(map[string]any)["users"], 1)
}
