package server

import (
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListComments handles GET /api/ideas/:idea_id/comments
// @Summary List comments
// @Description Top-level comments oldest first, each with its direct replies
// @Tags comments
// @Produce json
// @Param idea_id path string true "Idea ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} service.CommentPage
// @Failure 404 {object} models.ErrorResponse
// @Router /ideas/{idea_id}/comments [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	ideaID, err := parseUUID(c, "idea_id")
	if err != nil {
		return nil
	}
	page, err := s.commentService.List(c.UserContext(), ideaID, service.ListCommentsInput{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", service.DefaultPageLimit),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// CreateComment handles POST /api/ideas/:idea_id/comments
// @Summary Comment on an idea
// @Description A reply to a reply is attached to the top-level comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param idea_id path string true "Idea ID"
// @Param request body object{content=string,parent_id=string} true "Comment"
// @Success 201 {object} object{message=string,comment=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /ideas/{idea_id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ideaID, err := parseUUID(c, "idea_id")
	if err != nil {
		return nil
	}
	var req struct {
		Content  string  `json:"content"`
		ParentID *string `json:"parent_id"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.Create(c.UserContext(), ideaID, currentUser(c).ID, service.CreateCommentInput{
		Content:  req.Content,
		ParentID: deref(req.ParentID),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// UpdateComment handles PUT /api/comments/:id
// @Summary Edit comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Param request body object{content=string} true "New content"
// @Success 200 {object} object{message=string,comment=models.Comment}
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/{id} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.Update(c.UserContext(), currentActor(c), id, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.commentService.Delete(c.UserContext(), currentActor(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
