package repository

import (
	"testing"
	"time"

	"agora/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveVoteCounts(t *testing.T, f *fixtures, ideaID uuid.UUID) (up, down int64) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Vote{}).Where("idea_id = ? AND vote_type = ?", ideaID, models.VoteUp).Count(&up).Error)
	require.NoError(t, f.db.Model(&models.Vote{}).Where("idea_id = ? AND vote_type = ?", ideaID, models.VoteDown).Count(&down).Error)
	return up, down
}

func TestVoteRepository_PlazaReformSequence(t *testing.T) {
	f := newFixtures(t)
	repo := NewVoteRepository(f.db)
	ana := f.user("Ana", "ana@example.com")
	cat := f.category("Urbanismo")
	idea := f.idea("Reforma da Praça", ana, cat)

	steps := []struct {
		vote     models.VoteType
		outcome  models.VoteOutcome
		up, down int
		userVote *models.VoteType
	}{
		{models.VoteUp, models.VoteCreated, 1, 0, ptr(models.VoteUp)},
		{models.VoteUp, models.VoteRemoved, 0, 0, nil},
		{models.VoteDown, models.VoteCreated, 0, 1, ptr(models.VoteDown)},
		{models.VoteUp, models.VoteSwitched, 1, 0, ptr(models.VoteUp)},
	}

	for _, step := range steps {
		res, err := repo.Cast(f.ctx, idea.ID, ana.ID, step.vote)
		require.NoError(t, err)
		assert.Equal(t, step.outcome, res.Outcome)
		assert.Equal(t, step.up, res.Upvotes)
		assert.Equal(t, step.down, res.Downvotes)
		assert.Equal(t, step.userVote, res.UserVote)

		stored := f.reloadIdea(idea.ID)
		up, down := liveVoteCounts(t, f, idea.ID)
		assert.EqualValues(t, up, stored.Upvotes)
		assert.EqualValues(t, down, stored.Downvotes)
	}
}

func TestVoteRepository_ToggleHasPeriodTwo(t *testing.T) {
	f := newFixtures(t)
	repo := NewVoteRepository(f.db)
	author := f.user("Author", "author@example.com")
	voter := f.user("Voter", "voter@example.com")
	idea := f.idea("Ciclovia na avenida", author, f.category("Mobilidade"))

	for i := 0; i < 4; i++ {
		res, err := repo.Cast(f.ctx, idea.ID, voter.ID, models.VoteDown)
		require.NoError(t, err)
		if i%2 == 0 {
			assert.Equal(t, 1, res.Downvotes)
		} else {
			assert.Equal(t, 0, res.Downvotes)
		}
	}

	var rows int64
	require.NoError(t, f.db.Model(&models.Vote{}).Where("idea_id = ?", idea.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestVoteRepository_OneRowPerVoter(t *testing.T) {
	f := newFixtures(t)
	repo := NewVoteRepository(f.db)
	author := f.user("Author", "author@example.com")
	idea := f.idea("Horta comunitária", author, f.category("Meio ambiente"))

	voters := []*models.User{
		f.user("V1", "v1@example.com"),
		f.user("V2", "v2@example.com"),
		f.user("V3", "v3@example.com"),
	}
	for _, v := range voters {
		_, err := repo.Cast(f.ctx, idea.ID, v.ID, models.VoteUp)
		require.NoError(t, err)
	}
	res, err := repo.Cast(f.ctx, idea.ID, voters[0].ID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Upvotes)
	assert.Equal(t, 1, res.Downvotes)

	vote, err := repo.Get(f.ctx, idea.ID, voters[0].ID)
	require.NoError(t, err)
	require.NotNil(t, vote)
	assert.Equal(t, models.VoteDown, vote.VoteType)

	up, down := liveVoteCounts(t, f, idea.ID)
	assert.EqualValues(t, 2, up)
	assert.EqualValues(t, 1, down)
}

func TestVoteRepository_InactiveOrMissingIdea(t *testing.T) {
	f := newFixtures(t)
	repo := NewVoteRepository(f.db)
	author := f.user("Author", "author@example.com")
	idea := f.idea("Ideia removida", author, f.category("Outros"))
	require.NoError(t, NewIdeaRepository(f.db).SoftDelete(f.ctx, idea.ID))

	_, err := repo.Cast(f.ctx, idea.ID, author.ID, models.VoteUp)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = repo.Cast(f.ctx, uuid.New(), author.ID, models.VoteUp)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func ptr[T any](v T) *T { return &v }

func TestVoteRepository_CastRetriesAfterUniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)
	ideaID, userID := uuid.New(), uuid.New()
	now := time.Now()

	// First pass: no vote yet, but a concurrent request inserts first.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "ideas"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "votes" WHERE idea_id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "idea_id", "user_id", "vote_type", "created_at", "updated_at"}))
	mock.ExpectExec(`INSERT INTO "votes"`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	// Second pass: the winning row is visible and the same type toggles it off.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "ideas"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "votes" WHERE idea_id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "idea_id", "user_id", "vote_type", "created_at", "updated_at"}).
			AddRow(uuid.New().String(), ideaID.String(), userID.String(), "up", now, now))
	mock.ExpectExec(`DELETE FROM "votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT vote_type, COUNT\(\*\) AS n FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"vote_type", "n"}))
	mock.ExpectExec(`UPDATE "ideas" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Cast(t.Context(), ideaID, userID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteRemoved, result.Outcome)
	assert.Nil(t, result.UserVote)
	assert.Zero(t, result.Upvotes)
	assert.Zero(t, result.Downvotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_CastGivesUpAfterSecondUniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "ideas"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT \* FROM "votes"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "idea_id", "user_id", "vote_type", "created_at", "updated_at"}))
		mock.ExpectExec(`INSERT INTO "votes"`).
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})
		mock.ExpectRollback()
	}

	_, err := repo.Cast(t.Context(), uuid.New(), uuid.New(), models.VoteDown)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
