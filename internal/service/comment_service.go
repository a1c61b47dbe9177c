package service

import (
	"context"

	"agora/internal/content"
	"agora/internal/models"
	"agora/internal/notifications"
	"agora/internal/observability"
	"agora/internal/repository"
	"agora/internal/validation"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	ideaRepo    repository.IdeaRepository
	events      publisher
}

type ListCommentsInput struct {
	Page  int
	Limit int
}

// CommentPage is one page of top-level comments. Total counts top-level
// comments only.
type CommentPage struct {
	Comments   []models.Comment `json:"comments"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

type CreateCommentInput struct {
	Content  string
	ParentID string
}

func NewCommentService(commentRepo repository.CommentRepository, ideaRepo repository.IdeaRepository, notifier *notifications.Notifier) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		ideaRepo:    ideaRepo,
		events:      publisher{notifier: notifier},
	}
}

func (s *CommentService) List(ctx context.Context, ideaID uuid.UUID, in ListCommentsInput) (*CommentPage, error) {
	if _, err := s.ideaRepo.GetByID(ctx, ideaID); err != nil {
		return nil, err
	}
	page := resolvePage(in.Page, in.Limit, MaxPageLimit)
	comments, total, err := s.commentRepo.ListTopLevel(ctx, ideaID, page)
	if err != nil {
		return nil, err
	}
	return &CommentPage{
		Comments:   comments,
		Total:      total,
		Page:       page.Page,
		TotalPages: repository.TotalPages(total, page.Limit),
	}, nil
}

func (s *CommentService) Create(ctx context.Context, ideaID, authorID uuid.UUID, in CreateCommentInput) (*models.Comment, error) {
	text, err := commentContent(in.Content)
	if err != nil {
		return nil, err
	}
	comment := &models.Comment{
		Content: text,
		IdeaID:  ideaID,
		UserID:  authorID,
	}
	if in.ParentID != "" {
		parentID, err := uuid.Parse(in.ParentID)
		if err != nil {
			return nil, models.NewValidationError("Invalid parent_id")
		}
		comment.ParentID = &parentID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentEvents.WithLabelValues("create").Inc()

	var ideaAuthor uuid.UUID
	if idea, err := s.ideaRepo.GetByID(ctx, ideaID); err == nil {
		ideaAuthor = idea.UserID
	}
	s.events.ideaEvent(ctx, notifications.EventCommentAdded, ideaID, authorID, ideaAuthor, map[string]any{
		"comment_id": comment.ID,
		"parent_id":  comment.ParentID,
	})

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) Update(ctx context.Context, actor Actor, id uuid.UUID, rawContent string) (*models.Comment, error) {
	text, err := commentContent(rawContent)
	if err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.ID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Content = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentEvents.WithLabelValues("update").Inc()
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != actor.ID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	if err := s.commentRepo.SoftDelete(ctx, comment); err != nil {
		return err
	}
	observability.CommentEvents.WithLabelValues("delete").Inc()

	s.events.ideaEvent(ctx, notifications.EventCommentRemove, comment.IdeaID, actor.ID, uuid.Nil, map[string]any{
		"comment_id": comment.ID,
	})
	return nil
}

func commentContent(raw string) (string, error) {
	text := content.PlainText(raw)
	if text == "" {
		return "", models.NewMissingFieldsError([]string{"content"})
	}
	if err := validation.Length("content", text, validation.CommentMin, validation.CommentMax); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	return text, nil
}
