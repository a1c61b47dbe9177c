package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteSequenceOnPracaIdea(t *testing.T) {
	app := newTestApp(t)
	cat := app.category("Urbanismo")
	_, token := app.user("Ana")

	ideaID := app.idea(token, cat.ID, "Reforma da Praça")
	votePath := "/api/ideas/" + ideaID + "/vote"

	steps := []struct {
		voteType  string
		outcome   string
		upvotes   float64
		downvotes float64
		userVote  any
	}{
		{"up", "created", 1, 0, "up"},
		{"up", "removed", 0, 0, nil},
		{"down", "created", 0, 1, "down"},
	}
	for _, step := range steps {
		status, body := app.call(http.MethodPost, votePath, token, map[string]string{"vote_type": step.voteType})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, step.outcome, body["outcome"])
		assert.Equal(t, step.upvotes, body["upvotes"])
		assert.Equal(t, step.downvotes, body["downvotes"])
		assert.Equal(t, step.userVote, body["userVote"])
	}

	status, body := app.call(http.MethodGet, "/api/ideas/"+ideaID, "", nil)
	require.Equal(t, http.StatusOK, status)
	idea := body["idea"].(map[string]any)
	assert.Equal(t, float64(0), idea["upvotes"])
	assert.Equal(t, float64(1), idea["downvotes"])
}

func TestVoteRejectsUnknownType(t *testing.T) {
	app := newTestApp(t)
	cat := app.category("Urbanismo")
	_, token := app.user("Ana")
	ideaID := app.idea(token, cat.ID, "Reforma da Praça")

	status, body := app.call(http.MethodPost, "/api/ideas/"+ideaID+"/vote", token, map[string]string{"vote_type": "sideways"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestThreadedReply(t *testing.T) {
	app := newTestApp(t)
	cat := app.category("Cultura")
	_, tokenA := app.user("Alice")
	_, tokenB := app.user("Bruno")
	ideaID := app.idea(tokenA, cat.ID, "Feira de livros")
	commentsPath := "/api/ideas/" + ideaID + "/comments"

	status, body := app.call(http.MethodPost, commentsPath, tokenA, map[string]string{"content": "ótima ideia, apoio totalmente"})
	require.Equal(t, http.StatusCreated, status, body)
	parentID := body["comment"].(map[string]any)["id"].(string)

	status, body = app.call(http.MethodPost, commentsPath, tokenB, map[string]string{
		"content":   "concordo com a Alice",
		"parent_id": parentID,
	})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = app.call(http.MethodGet, commentsPath, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["total"])
	comments := body["comments"].([]any)
	require.Len(t, comments, 1)
	top := comments[0].(map[string]any)
	assert.Equal(t, parentID, top["id"])
	replies := top["replies"].([]any)
	require.Len(t, replies, 1)
	assert.Equal(t, "concordo com a Alice", replies[0].(map[string]any)["content"])

	_, body = app.call(http.MethodGet, "/api/ideas/"+ideaID, "", nil)
	assert.Equal(t, float64(2), body["idea"].(map[string]any)["comment_count"])
}

func TestNonOwnerCannotEditIdea(t *testing.T) {
	app := newTestApp(t)
	cat := app.category("Mobilidade")
	_, ownerToken := app.user("Owner")
	_, otherToken := app.user("Other")
	ideaID := app.idea(ownerToken, cat.ID, "Ciclovia na avenida")

	status, body := app.call(http.MethodPut, "/api/ideas/"+ideaID, otherToken, map[string]string{"title": "Hijacked title"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	_, body = app.call(http.MethodGet, "/api/ideas/"+ideaID, "", nil)
	assert.Equal(t, "Ciclovia na avenida", body["idea"].(map[string]any)["title"])
}
