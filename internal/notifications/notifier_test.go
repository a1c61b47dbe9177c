package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) (*Notifier, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewNotifier(rdb), rdb
}

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), uuid.New(), map[string]string{"k": "v"}))
	assert.NoError(t, n.PublishIdeaEvent(context.Background(), Event{Type: EventVoteCast}))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), []string{"ideas:*"}, func(string, string) {}))

	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.PublishIdeaEvent(context.Background(), Event{}))
}

func TestChannels(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "notifications:user:11111111-2222-3333-4444-555555555555", UserChannel(id))
	assert.Equal(t, "ideas:11111111-2222-3333-4444-555555555555", IdeaChannel(id))
}

func TestNotifier_PublishIdeaEventReachesIdeaAndFeed(t *testing.T) {
	n, _ := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	got := map[string]Event{}
	require.NoError(t, n.StartPatternSubscriber(ctx, []string{"ideas:*"}, func(channel, payload string) {
		var ev Event
		if json.Unmarshal([]byte(payload), &ev) == nil {
			mu.Lock()
			got[channel] = ev
			mu.Unlock()
		}
	}))

	ideaID := uuid.New()
	actor := uuid.New()
	require.NoError(t, n.PublishIdeaEvent(context.Background(), Event{
		Type: EventVoteCast, IdeaID: ideaID, ActorID: actor, Data: map[string]any{"outcome": "created"},
	}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, EventVoteCast, got[IdeaChannel(ideaID)].Type)
	assert.Equal(t, actor, got[FeedChannel].ActorID)
	assert.False(t, got[FeedChannel].At.IsZero())
}

func TestNotifier_SubscriberSurvivesPanicAndStopsOnCancel(t *testing.T) {
	n, _ := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())

	payloads := make(chan string, 4)
	require.NoError(t, n.StartPatternSubscriber(ctx, []string{"notifications:user:*"}, func(_ string, payload string) {
		if payload == `"boom"` {
			panic("boom")
		}
		payloads <- payload
	}))

	user := uuid.New()
	require.NoError(t, n.PublishUser(context.Background(), user, "boom"))
	require.NoError(t, n.PublishUser(context.Background(), user, "ok"))

	select {
	case p := <-payloads:
		assert.Equal(t, `"ok"`, p)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not deliver after a panicking callback")
	}

	cancel()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, n.PublishUser(context.Background(), user, "after-cancel"))
	assert.Never(t, func() bool {
		select {
		case <-payloads:
			return true
		default:
			return false
		}
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestLogMailer_HidesTokenUnlessRevealed(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	require.NoError(t, LogMailer{Logger: logger}.SendPasswordReset(context.Background(), "a@b.com", "Ana", "secret-token", time.Now()))
	assert.NotContains(t, buf.String(), "secret-token")

	buf.Reset()
	require.NoError(t, LogMailer{Logger: logger, RevealTokens: true}.SendPasswordReset(context.Background(), "a@b.com", "Ana", "secret-token", time.Now()))
	assert.Contains(t, buf.String(), "secret-token")
}
