package service

import (
	"context"

	"agora/internal/models"
	"agora/internal/notifications"
	"agora/internal/observability"
	"agora/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type VoteService struct {
	voteRepo repository.VoteRepository
	ideaRepo repository.IdeaRepository
	events   publisher
}

func NewVoteService(voteRepo repository.VoteRepository, ideaRepo repository.IdeaRepository, notifier *notifications.Notifier) *VoteService {
	return &VoteService{
		voteRepo: voteRepo,
		ideaRepo: ideaRepo,
		events:   publisher{notifier: notifier},
	}
}

// Cast toggles the caller's vote: a first vote is recorded, the same vote
// again removes it and the opposite vote switches it.
func (s *VoteService) Cast(ctx context.Context, ideaID, userID uuid.UUID, voteType string) (res *models.VoteResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "VoteService", "Cast",
		attribute.String("idea.id", ideaID.String()),
		attribute.String("vote.type", voteType),
	)
	defer func() { observability.EndSpan(span, err) }()

	vt := models.VoteType(voteType)
	if !vt.Valid() {
		return nil, models.NewValidationError("Invalid vote type. Must be 'up' or 'down'")
	}

	res, err = s.voteRepo.Cast(ctx, ideaID, userID, vt)
	if err != nil {
		return nil, err
	}
	observability.VotesCast.WithLabelValues(string(res.Outcome)).Inc()

	var authorID uuid.UUID
	if idea, err := s.ideaRepo.GetByID(ctx, ideaID); err == nil {
		authorID = idea.UserID
	}
	s.events.ideaEvent(ctx, notifications.EventVoteCast, ideaID, userID, authorID, map[string]any{
		"outcome":   res.Outcome,
		"vote_type": vt,
		"upvotes":   res.Upvotes,
		"downvotes": res.Downvotes,
	})
	return res, nil
}
