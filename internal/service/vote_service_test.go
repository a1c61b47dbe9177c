package service

import (
	"encoding/json"
	"testing"
	"time"

	"agora/internal/models"
	"agora/internal/notifications"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastVoteToggles(t *testing.T) {
	h := newHarness(t)
	author := h.user("Ana")
	voter := h.user("Bruno")
	idea := h.idea(author, h.category("Urbanismo"), "Reforma da Praça")

	res, err := h.votes.Cast(h.ctx, idea.ID, voter.ID, "up")
	require.NoError(t, err)
	assert.Equal(t, models.VoteCreated, res.Outcome)
	assert.Equal(t, 1, res.Upvotes)

	res, err = h.votes.Cast(h.ctx, idea.ID, voter.ID, "down")
	require.NoError(t, err)
	assert.Equal(t, models.VoteSwitched, res.Outcome)
	assert.Equal(t, 0, res.Upvotes)
	assert.Equal(t, 1, res.Downvotes)

	res, err = h.votes.Cast(h.ctx, idea.ID, voter.ID, "down")
	require.NoError(t, err)
	assert.Equal(t, models.VoteRemoved, res.Outcome)
	assert.Nil(t, res.UserVote)
	assert.Equal(t, 0, res.Downvotes)
}

func TestCastVoteValidation(t *testing.T) {
	h := newHarness(t)
	voter := h.user("Bruno")
	idea := h.idea(h.user("Ana"), h.category("Urbanismo"), "Reforma da Praça")

	_, err := h.votes.Cast(h.ctx, idea.ID, voter.ID, "sideways")
	assertValidationError(t, err)

	_, err = h.votes.Cast(h.ctx, uuid.New(), voter.ID, "up")
	assertNotFoundError(t, err)
}

func TestCastVotePublishesEvents(t *testing.T) {
	h := newHarness(t, withEvents())

	author := h.user("Ana")
	voter := h.user("Bruno")
	idea := h.idea(author, h.category("Urbanismo"), "Reforma da Praça")

	feed := h.rdb.Subscribe(h.ctx, notifications.FeedChannel)
	t.Cleanup(func() { _ = feed.Close() })
	inbox := h.rdb.Subscribe(h.ctx, notifications.UserChannel(author.ID))
	t.Cleanup(func() { _ = inbox.Close() })
	_, err := feed.Receive(h.ctx)
	require.NoError(t, err)
	_, err = inbox.Receive(h.ctx)
	require.NoError(t, err)

	_, err = h.votes.Cast(h.ctx, idea.ID, voter.ID, "up")
	require.NoError(t, err)

	for _, ch := range []<-chan *redis.Message{feed.Channel(), inbox.Channel()} {
		select {
		case msg := <-ch:
			var ev notifications.Event
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
			assert.Equal(t, notifications.EventVoteCast, ev.Type)
			assert.Equal(t, idea.ID, ev.IdeaID)
			assert.Equal(t, voter.ID, ev.ActorID)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for vote event")
		}
	}
}
