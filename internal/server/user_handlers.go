package server

import (
	"context"
	"strings"
	"time"

	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListUsers handles GET /api/users
// @Summary List users
// @Description Admin listing with search and sort (recent, oldest, name)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or email substring"
// @Param sort query string false "recent, oldest or name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} service.UserPage
// @Failure 403 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	page, err := s.userService.ListUsers(ctx, service.ListUsersInput{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", service.DefaultPageLimit),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetMe handles GET /api/users/me
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{user=models.User}
// @Router /users/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetUser handles GET /api/users/:id
// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} object{user=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update profile
// @Description Self or admin. interests may be a comma-separated string or an array.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} object{message=string,user=models.User}
// @Failure 403 {object} models.ErrorResponse
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name       *string `json:"name"`
		Bio        *string `json:"bio"`
		Location   *string `json:"location"`
		Website    *string `json:"website"`
		Phone      *string `json:"phone"`
		Occupation *string `json:"occupation"`
		Interests  any     `json:"interests"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), currentActor(c), id, service.UpdateProfileInput{
		Name:       req.Name,
		Bio:        req.Bio,
		Location:   req.Location,
		Website:    req.Website,
		Phone:      req.Phone,
		Occupation: req.Occupation,
		Interests:  interestList(req.Interests),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// interestList accepts "a, b" or ["a","b"]. Absent input stays nil so the
// stored interests are left alone.
func interestList(raw any) []string {
	switch v := raw.(type) {
	case string:
		return strings.Split(v, ",")
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// UploadAvatar handles POST /api/users/:id/avatar
// @Summary Upload avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param avatar formData file true "Image"
// @Success 200 {object} object{message=string,user=models.User,avatar=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /users/{id}/avatar [post]
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	file, err := formImage(c, "avatar")
	if err != nil {
		return respondServiceError(c, err)
	}
	if file == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	user, err := s.userService.UploadAvatar(c.UserContext(), currentActor(c), id, *file)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Avatar updated successfully",
		"user":    user,
		"avatar":  user.Avatar,
	})
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Deactivate account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.DeleteUser(c.UserContext(), currentActor(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deactivated successfully"})
}

// ListUserIdeas handles GET /api/users/:id/ideas
// @Summary Ideas by author
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Param status query string false "pending, approved, rejected or implemented"
// @Param sort query string false "recent, oldest, votes or comments"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} service.UserIdeasPage
// @Router /users/{id}/ideas [get]
func (s *Server) ListUserIdeas(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	page, err := s.ideaService.ListByUser(c.UserContext(), id, service.ListIdeasInput{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", service.DefaultPageLimit),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
		Viewer: viewerID(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}
