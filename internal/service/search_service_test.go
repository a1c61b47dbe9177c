package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	h := newHarness(t)
	ana := h.user("Ana Praça")
	admin := h.admin("Carla")
	cat := h.category("Praças e parques")
	idea := h.idea(ana, cat, "Reforma da Praça")
	h.idea(ana, h.category("Educação"), "Biblioteca comunitária")
	_, err := h.comments.Create(h.ctx, idea.ID, ana.ID, CreateCommentInput{Content: "A praça precisa de sombra"})
	require.NoError(t, err)

	res, err := h.search.Search(h.ctx, nil, SearchInput{Query: "praça"})
	require.NoError(t, err)
	assert.Equal(t, SearchAll, res.Type)
	assert.Len(t, res.Results.Ideas, 1)
	assert.Len(t, res.Results.Categories, 1)
	assert.Empty(t, res.Results.Users)
	assert.Empty(t, res.Results.Comments)
	assert.Equal(t, int64(2), res.Pagination.Total)

	res, err = h.search.Search(h.ctx, &Actor{ID: admin.ID, IsAdmin: true}, SearchInput{Query: "praça"})
	require.NoError(t, err)
	assert.Len(t, res.Results.Users, 1)
	assert.Len(t, res.Results.Comments, 1)
	assert.Equal(t, int64(4), res.Pagination.Total)

	res, err = h.search.Search(h.ctx, nil, SearchInput{Query: "praça", Type: "ideas", Limit: 500})
	require.NoError(t, err)
	assert.Empty(t, res.Results.Categories)
	assert.Equal(t, MaxSearchLimit, res.Pagination.Limit)
}

func TestSearchValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.search.Search(h.ctx, nil, SearchInput{Query: "a"})
	assertValidationError(t, err)

	_, err = h.search.Search(h.ctx, nil, SearchInput{Query: "praça", Type: "posts"})
	assertValidationError(t, err)
}
