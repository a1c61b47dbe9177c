package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdeaAndUserStats(t *testing.T) {
	app := newTestApp(t)
	cat := app.category("Urbanismo")
	u, token := app.user("Ana")
	_, otherToken := app.user("Bruno")
	ideaID := app.idea(token, cat.ID, "Reforma da Praça")

	app.call(http.MethodPost, "/api/ideas/"+ideaID+"/vote", otherToken, map[string]string{"vote_type": "up"})
	app.call(http.MethodPost, "/api/ideas/"+ideaID+"/comments", otherToken, map[string]string{"content": "Excelente proposta"})

	status, body := app.call(http.MethodGet, "/api/stats/ideas/"+ideaID, "", nil)
	require.Equal(t, http.StatusOK, status, body)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["upvotes"])
	assert.Equal(t, float64(1), stats["totalComments"])
	assert.Len(t, body["recentActivity"], 1)

	status, body = app.call(http.MethodGet, "/api/stats/users/"+u.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.NotContains(t, body["user"], "email")
	assert.Equal(t, float64(10), body["stats"].(map[string]any)["reputation"])

	_, body = app.call(http.MethodGet, "/api/stats/users/"+u.ID.String(), token, nil)
	assert.Contains(t, body["user"], "email")
}
