// Package notifications publishes idea activity to Redis channels and
// delivers account e-mails.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"agora/internal/middleware"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event types published on idea channels.
const (
	EventVoteCast      = "vote.cast"
	EventCommentAdded  = "comment.created"
	EventCommentRemove = "comment.deleted"
	EventStatusChanged = "idea.status_changed"
	EventIdeaCreated   = "idea.created"
)

// FeedChannel receives every idea event.
const FeedChannel = "ideas:feed"

// Event is the JSON payload published for idea activity.
type Event struct {
	Type    string         `json:"type"`
	IdeaID  uuid.UUID      `json:"idea_id"`
	ActorID uuid.UUID      `json:"actor_id"`
	Data    map[string]any `json:"data,omitempty"`
	At      time.Time      `json:"at"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishIdeaEvent sends ev to the idea's channel and to the global feed.
func (n *Notifier) PublishIdeaEvent(ctx context.Context, ev Event) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	pipe := n.rdb.Pipeline()
	pipe.Publish(ctx, IdeaChannel(ev.IdeaID), payload)
	pipe.Publish(ctx, FeedChannel, payload)
	_, err = pipe.Exec(ctx)
	return err
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uuid.UUID, payload any) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.rdb.Publish(ctx, UserChannel(userID), b).Err()
}

// StartPatternSubscriber subscribes to the given channel patterns and calls
// onMessage for each incoming message until ctx is cancelled. A panicking
// callback is logged and the subscription keeps running.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, patterns []string, onMessage func(channel string, payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, patterns...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %v: %w", patterns, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in pattern subscriber",
								"panic", r, "stack", string(debug.Stack()))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uuid.UUID) string {
	return "notifications:user:" + userID.String()
}

// IdeaChannel derives the Redis channel name for an idea.
func IdeaChannel(ideaID uuid.UUID) string {
	return "ideas:" + ideaID.String()
}
