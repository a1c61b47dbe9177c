package service

import (
	"context"
	"strings"

	"agora/internal/content"
	"agora/internal/featureflags"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/notifications"
	"agora/internal/observability"
	"agora/internal/repository"
	"agora/internal/validation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
)

type IdeaService struct {
	ideaRepo     repository.IdeaRepository
	categoryRepo repository.CategoryRepository
	images       *ImageService
	flags        *featureflags.Manager
	events       publisher
}

type ListIdeasInput struct {
	Page       int
	Limit      int
	CategoryID string
	UserID     string
	Status     string
	Sort       string
	Search     string
	Viewer     *uuid.UUID
}

// IdeaPage is one page of the public idea listing.
type IdeaPage struct {
	Ideas      []models.Idea `json:"ideas"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

// UserIdeasPage is one page of an author's ideas.
type UserIdeasPage struct {
	Ideas      []models.Idea `json:"ideas"`
	Pagination Pagination    `json:"pagination"`
}

type CreateIdeaInput struct {
	Title       string
	Description string
	Location    string
	CategoryID  string
	Latitude    *float64
	Longitude   *float64
	// Tags is a comma-separated list.
	Tags  string
	Image *UploadImageInput
}

// UpdateIdeaInput carries a partial update; nil fields are left alone.
type UpdateIdeaInput struct {
	Title       *string
	Description *string
	Location    *string
	CategoryID  *string
	Latitude    *float64
	Longitude   *float64
	Tags        *string
	Status      *string
}

func NewIdeaService(
	ideaRepo repository.IdeaRepository,
	categoryRepo repository.CategoryRepository,
	images *ImageService,
	flags *featureflags.Manager,
	notifier *notifications.Notifier,
) *IdeaService {
	return &IdeaService{
		ideaRepo:     ideaRepo,
		categoryRepo: categoryRepo,
		images:       images,
		flags:        flags,
		events:       publisher{notifier: notifier},
	}
}

func (s *IdeaService) List(ctx context.Context, in ListIdeasInput) (*IdeaPage, error) {
	filter, err := ideaFilter(in)
	if err != nil {
		return nil, err
	}
	filter.Page = resolvePage(in.Page, in.Limit, MaxPageLimit)

	ideas, total, err := s.ideaRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &IdeaPage{
		Ideas:      ideas,
		Total:      total,
		Page:       filter.Page.Page,
		TotalPages: repository.TotalPages(total, filter.Page.Limit),
	}, nil
}

func (s *IdeaService) ListByUser(ctx context.Context, userID uuid.UUID, in ListIdeasInput) (*UserIdeasPage, error) {
	in.UserID = userID.String()
	in.CategoryID = ""
	in.Search = ""
	filter, err := ideaFilter(in)
	if err != nil {
		return nil, err
	}
	filter.Page = resolvePage(in.Page, in.Limit, MaxPageLimit)

	ideas, total, err := s.ideaRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &UserIdeasPage{Ideas: ideas, Pagination: newPagination(filter.Page, total)}, nil
}

func ideaFilter(in ListIdeasInput) (repository.IdeaFilter, error) {
	filter := repository.IdeaFilter{
		Search: strings.TrimSpace(in.Search),
		Sort:   in.Sort,
		Viewer: in.Viewer,
	}
	if in.CategoryID != "" {
		id, err := uuid.Parse(in.CategoryID)
		if err != nil {
			return filter, models.NewValidationError("Invalid category_id")
		}
		filter.CategoryID = &id
	}
	if in.UserID != "" {
		id, err := uuid.Parse(in.UserID)
		if err != nil {
			return filter, models.NewValidationError("Invalid user_id")
		}
		filter.UserID = &id
	}
	if in.Status != "" {
		status := models.IdeaStatus(in.Status)
		if !status.Valid() {
			return filter, models.NewValidationError("Invalid status")
		}
		filter.Status = status
	}
	return filter, nil
}

// Get returns the idea regardless of is_active, with its rendered
// description.
func (s *IdeaService) Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*models.Idea, error) {
	idea, err := s.ideaRepo.GetDetail(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	idea.DescriptionHTML = content.RenderMarkdown(idea.Description)
	return idea, nil
}

func (s *IdeaService) Create(ctx context.Context, authorID uuid.UUID, in CreateIdeaInput) (idea *models.Idea, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "IdeaService", "Create",
		attribute.String("user.id", authorID.String()))
	defer func() { observability.EndSpan(span, err) }()

	if missing := validation.MissingFields([][2]string{
		{"title", in.Title},
		{"description", in.Description},
		{"location", in.Location},
		{"category_id", in.CategoryID},
	}); len(missing) > 0 {
		return nil, models.NewMissingFieldsError(missing)
	}

	idea = &models.Idea{UserID: authorID, Status: models.IdeaStatusPending}
	if err := s.applyFields(ctx, idea, UpdateIdeaInput{
		Title:       &in.Title,
		Description: &in.Description,
		Location:    &in.Location,
		CategoryID:  &in.CategoryID,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Tags:        &in.Tags,
	}); err != nil {
		return nil, err
	}

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, err
	}
	observability.IdeasCreated.Inc()

	if in.Image != nil && len(in.Image.Content) > 0 {
		s.attachImage(ctx, idea, *in.Image)
	}

	s.events.ideaEvent(ctx, notifications.EventIdeaCreated, idea.ID, authorID, uuid.Nil, map[string]any{
		"title": idea.Title,
	})

	return s.ideaRepo.GetDetail(ctx, idea.ID, &authorID)
}

// attachImage stores the upload as the idea's primary image. Failures are
// logged and leave the idea without an image.
func (s *IdeaService) attachImage(ctx context.Context, idea *models.Idea, file UploadImageInput) {
	file.Kind = ImageKindIdea
	file.OwnerID = idea.UserID
	stored, err := s.images.Store(ctx, file)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "idea image rejected", "idea_id", idea.ID, "error", err)
		return
	}
	record := &models.IdeaImage{
		IdeaID:       idea.ID,
		Filename:     stored.Filename,
		OriginalName: stored.OriginalName,
		MimeType:     stored.MimeType,
		Size:         stored.Size,
		Path:         stored.Path,
		URL:          stored.URL,
		WebPURL:      stored.WebPURL,
		IsPrimary:    true,
	}
	if err := s.ideaRepo.AddImage(ctx, record); err != nil {
		middleware.Logger.ErrorContext(ctx, "idea image not saved", "idea_id", idea.ID, "error", err)
		s.images.Remove(stored)
	}
}

func (s *IdeaService) Update(ctx context.Context, actor Actor, id uuid.UUID, in UpdateIdeaInput) (*models.Idea, error) {
	idea, err := s.ideaRepo.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(idea.UserID) {
		return nil, models.NewForbiddenError("You can only edit your own ideas")
	}

	previous := idea.Status
	if in.Status != nil && models.IdeaStatus(*in.Status) != idea.Status {
		next := models.IdeaStatus(*in.Status)
		if !actor.IsAdmin {
			return nil, models.NewForbiddenError("Only administrators can change the idea status")
		}
		if !next.Valid() {
			return nil, models.NewValidationError("Invalid status")
		}
		if s.flags.Enabled(featureflags.StrictStatusTransitions, actor.ID) && !idea.Status.CanTransitionTo(next) {
			return nil, models.NewValidationError("Invalid status transition")
		}
		idea.Status = next
	}

	if err := s.applyFields(ctx, idea, in); err != nil {
		return nil, err
	}
	if err := s.ideaRepo.Update(ctx, idea); err != nil {
		return nil, err
	}

	if idea.Status != previous {
		s.events.ideaEvent(ctx, notifications.EventStatusChanged, idea.ID, actor.ID, idea.UserID, map[string]any{
			"from": previous,
			"to":   idea.Status,
		})
	}

	return s.Get(ctx, idea.ID, &actor.ID)
}

func (s *IdeaService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	idea, err := s.ideaRepo.GetActive(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(idea.UserID) {
		return models.NewForbiddenError("You can only delete your own ideas")
	}
	return s.ideaRepo.SoftDelete(ctx, id)
}

// applyFields validates and copies the non-nil fields of in onto idea.
func (s *IdeaService) applyFields(ctx context.Context, idea *models.Idea, in UpdateIdeaInput) error {
	if in.Title != nil {
		title := content.PlainText(*in.Title)
		if err := validation.Length("title", title, validation.IdeaTitleMin, validation.IdeaTitleMax); err != nil {
			return models.NewValidationError(err.Error())
		}
		idea.Title = title
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if err := validation.Length("description", desc, validation.IdeaDescriptionMin, validation.IdeaDescriptionMax); err != nil {
			return models.NewValidationError(err.Error())
		}
		idea.Description = desc
	}
	if in.Location != nil {
		location := content.PlainText(*in.Location)
		if err := validation.Length("location", location, 1, validation.IdeaLocationMax); err != nil {
			return models.NewValidationError(err.Error())
		}
		idea.Location = location
	}
	if err := validation.ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		return models.NewValidationError(err.Error())
	}
	if in.Latitude != nil {
		idea.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		idea.Longitude = in.Longitude
	}
	if in.Tags != nil {
		tags, err := validation.ParseTags(*in.Tags)
		if err != nil {
			return models.NewValidationError(err.Error())
		}
		idea.Tags = datatypes.JSONSlice[string](tags)
	}
	if idea.Tags == nil {
		idea.Tags = datatypes.JSONSlice[string]{}
	}
	if in.CategoryID != nil {
		categoryID, err := uuid.Parse(strings.TrimSpace(*in.CategoryID))
		if err != nil {
			return models.NewValidationError("Invalid category_id")
		}
		if categoryID != idea.CategoryID {
			exists, err := s.categoryRepo.Exists(ctx, categoryID)
			if err != nil {
				return err
			}
			if !exists {
				return models.NewValidationError("Category not found")
			}
			idea.CategoryID = categoryID
		}
	}
	return nil
}
