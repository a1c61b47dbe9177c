package server

import (
	"strconv"
	"strings"

	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ideaRequest is the JSON form of an idea create or update. Multipart
// requests carry the same fields as form values.
type ideaRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	CategoryID  *string  `json:"category_id"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Tags        any      `json:"tags"`
	Status      *string  `json:"status"`
}

// readIdeaRequest decodes either body form. A coordinate that is not a
// number fails with a validation error.
func readIdeaRequest(c *fiber.Ctx) (*ideaRequest, error) {
	if !isMultipart(c) {
		var req ideaRequest
		if err := parseBody(c, &req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	form := func(key string) *string {
		if v, ok := formValue(c, key); ok {
			return &v
		}
		return nil
	}
	req := &ideaRequest{
		Title:       form("title"),
		Description: form("description"),
		Location:    form("location"),
		CategoryID:  form("category_id"),
		Status:      form("status"),
	}
	if tags := form("tags"); tags != nil {
		req.Tags = *tags
	}
	for key, dst := range map[string]**float64{"latitude": &req.Latitude, "longitude": &req.Longitude} {
		raw := form(key)
		if raw == nil || strings.TrimSpace(*raw) == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid "+key))
			return nil, errResponseWritten
		}
		*dst = &f
	}
	return req, nil
}

func formValue(c *fiber.Ctx, key string) (string, bool) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return "", false
	}
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// tagString flattens a tag array into the comma form the service parses.
func tagString(raw any) *string {
	var out string
	switch v := raw.(type) {
	case string:
		out = v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		out = strings.Join(parts, ",")
	default:
		return nil
	}
	return &out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListIdeas handles GET /api/ideas
// @Summary List ideas
// @Description Active ideas with filters, search and sort
// @Tags ideas
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size, max 100"
// @Param category_id query string false "Category ID"
// @Param user_id query string false "Author ID"
// @Param status query string false "pending, approved, rejected or implemented"
// @Param sort query string false "recent, oldest, votes or comments"
// @Param search query string false "Substring of title, description or location"
// @Success 200 {object} service.IdeaPage
// @Failure 400 {object} models.ErrorResponse
// @Router /ideas [get]
func (s *Server) ListIdeas(c *fiber.Ctx) error {
	page, err := s.ideaService.List(c.UserContext(), service.ListIdeasInput{
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", service.DefaultPageLimit),
		CategoryID: c.Query("category_id"),
		UserID:     c.Query("user_id"),
		Status:     c.Query("status"),
		Sort:       c.Query("sort"),
		Search:     c.Query("search"),
		Viewer:     viewerID(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetIdea handles GET /api/ideas/:id
// @Summary Get idea
// @Description Full idea with comments, images, counters and rendered description
// @Tags ideas
// @Produce json
// @Param id path string true "Idea ID"
// @Success 200 {object} object{idea=models.Idea}
// @Failure 404 {object} models.ErrorResponse
// @Router /ideas/{id} [get]
func (s *Server) GetIdea(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	idea, err := s.ideaService.Get(c.UserContext(), id, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"idea": idea})
}

// CreateIdea handles POST /api/ideas
// @Summary Create idea
// @Description JSON or multipart; an optional image field becomes the primary image
// @Tags ideas
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body ideaRequest true "Idea"
// @Success 201 {object} object{message=string,idea=models.Idea}
// @Failure 400 {object} models.ErrorResponse
// @Router /ideas [post]
func (s *Server) CreateIdea(c *fiber.Ctx) error {
	req, err := readIdeaRequest(c)
	if err != nil {
		return nil
	}

	in := service.CreateIdeaInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Location:    deref(req.Location),
		CategoryID:  deref(req.CategoryID),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Tags:        deref(tagString(req.Tags)),
	}
	if isMultipart(c) {
		if in.Image, err = formImage(c, "image"); err != nil {
			return respondServiceError(c, err)
		}
	}

	idea, err := s.ideaService.Create(c.UserContext(), currentUser(c).ID, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Idea created successfully",
		"idea":    idea,
	})
}

// UpdateIdea handles PUT /api/ideas/:id
// @Summary Update idea
// @Description Owner or admin. Only admins may change status.
// @Tags ideas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Idea ID"
// @Param request body ideaRequest true "Fields to change"
// @Success 200 {object} object{message=string,idea=models.Idea}
// @Failure 403 {object} models.ErrorResponse
// @Router /ideas/{id} [put]
func (s *Server) UpdateIdea(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	req, err := readIdeaRequest(c)
	if err != nil {
		return nil
	}

	idea, err := s.ideaService.Update(c.UserContext(), currentActor(c), id, service.UpdateIdeaInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Tags:        tagString(req.Tags),
		Status:      req.Status,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Idea updated successfully",
		"idea":    idea,
	})
}

// DeleteIdea handles DELETE /api/ideas/:id
// @Summary Delete idea
// @Tags ideas
// @Produce json
// @Security BearerAuth
// @Param id path string true "Idea ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /ideas/{id} [delete]
func (s *Server) DeleteIdea(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.ideaService.Delete(c.UserContext(), currentActor(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Idea deleted successfully"})
}

var voteMessages = map[models.VoteOutcome]string{
	models.VoteCreated:  "Vote recorded",
	models.VoteRemoved:  "Vote removed",
	models.VoteSwitched: "Vote changed",
}

// Vote handles POST /api/ideas/:id/vote
// @Summary Vote on an idea
// @Description Same type again removes the vote; the opposite type switches it
// @Tags ideas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Idea ID"
// @Param request body object{vote_type=string} true "up or down"
// @Success 200 {object} object{message=string,outcome=string,upvotes=int,downvotes=int,userVote=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /ideas/{id}/vote [post]
func (s *Server) Vote(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		VoteType string `json:"vote_type"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.voteService.Cast(c.UserContext(), id, currentUser(c).ID, req.VoteType)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":   voteMessages[res.Outcome],
		"outcome":   res.Outcome,
		"upvotes":   res.Upvotes,
		"downvotes": res.Downvotes,
		"userVote":  res.UserVote,
	})
}
