package repository

import (
	"testing"

	"agora/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_DeleteBlockedByIdeas(t *testing.T) {
	f := newFixtures(t)
	repo := NewCategoryRepository(f.db)
	ana := f.user("Ana", "ana@example.com")
	cat := f.category("Transporte")
	idea := f.idea("Mais ônibus à noite", ana, cat)

	// Inactive ideas still hold the reference.
	require.NoError(t, NewIdeaRepository(f.db).SoftDelete(f.ctx, idea.ID))

	err := repo.Delete(f.ctx, cat.ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))
	assert.Contains(t, err.Error(), "Cannot delete category with existing ideas")

	var n int64
	require.NoError(t, f.db.Model(&models.Category{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCategoryRepository_DeleteUnused(t *testing.T) {
	f := newFixtures(t)
	repo := NewCategoryRepository(f.db)
	cat := f.category("Esportes")

	require.NoError(t, repo.Delete(f.ctx, cat.ID))
	_, err := repo.GetByID(f.ctx, cat.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	err = repo.Delete(f.ctx, uuid.New())
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestCategoryRepository_DuplicateName(t *testing.T) {
	f := newFixtures(t)
	repo := NewCategoryRepository(f.db)
	f.category("Saúde")

	err := repo.Create(f.ctx, &models.Category{Name: "Saúde", Color: "#00ff00"})
	assert.True(t, models.IsCode(err, models.CodeConflict))
}

func TestCategoryRepository_ListActiveOrderedByName(t *testing.T) {
	f := newFixtures(t)
	repo := NewCategoryRepository(f.db)
	f.category("Zeladoria")
	f.category("Acessibilidade")
	hidden := f.category("Oculta")
	hidden.IsActive = false
	require.NoError(t, repo.Update(f.ctx, hidden))

	list, err := repo.ListActive(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acessibilidade", list[0].Name)
	assert.Equal(t, "Zeladoria", list[1].Name)

	exists, err := repo.Exists(f.ctx, hidden.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCategoryRepository_Ensure(t *testing.T) {
	f := newFixtures(t)
	repo := NewCategoryRepository(f.db)

	created, err := repo.Ensure(f.ctx, &models.Category{Name: "Educação", Color: "#123456"})
	require.NoError(t, err)
	assert.True(t, created)

	again := &models.Category{Name: "Educação", Color: "#654321"}
	created, err = repo.Ensure(f.ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "#123456", again.Color)
}
