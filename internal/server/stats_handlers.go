package server

import "github.com/gofiber/fiber/v2"

// GetStats handles GET /api/stats
// @Summary Platform statistics
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.GeneralStats
// @Failure 403 {object} models.ErrorResponse
// @Router /stats [get]
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.statsService.General(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetIdeaStats handles GET /api/stats/ideas/:id
// @Summary Idea statistics
// @Tags stats
// @Produce json
// @Param id path string true "Idea ID"
// @Success 200 {object} service.IdeaStats
// @Failure 404 {object} models.ErrorResponse
// @Router /stats/ideas/{id} [get]
func (s *Server) GetIdeaStats(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	stats, err := s.statsService.Idea(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetUserStats handles GET /api/stats/users/:id
// @Summary User statistics
// @Description Email is included for the user themselves and for admins
// @Tags stats
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} service.UserStats
// @Failure 404 {object} models.ErrorResponse
// @Router /stats/users/{id} [get]
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	stats, err := s.statsService.User(c.UserContext(), optionalActor(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}
