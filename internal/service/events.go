package service

import (
	"context"
	"time"

	"agora/internal/middleware"
	"agora/internal/notifications"

	"github.com/google/uuid"
)

// publisher fans idea activity out to Redis. Delivery is best effort: a
// failed publish is logged and never fails the request.
type publisher struct {
	notifier *notifications.Notifier
}

func (p publisher) ideaEvent(ctx context.Context, eventType string, ideaID, actorID, authorID uuid.UUID, data map[string]any) {
	if p.notifier == nil {
		return
	}
	ev := notifications.Event{
		Type:    eventType,
		IdeaID:  ideaID,
		ActorID: actorID,
		Data:    data,
		At:      time.Now().UTC(),
	}
	if err := p.notifier.PublishIdeaEvent(ctx, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "publish idea event failed", "type", eventType, "idea_id", ideaID, "error", err)
	}
	if authorID == uuid.Nil || authorID == actorID {
		return
	}
	if err := p.notifier.PublishUser(ctx, authorID, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "notify idea author failed", "type", eventType, "idea_id", ideaID, "error", err)
	}
}
