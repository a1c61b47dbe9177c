package server

import (
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Search handles GET /api/search
// @Summary Search
// @Description Searches ideas, users, comments and categories. Users and comments are only returned to admins.
// @Tags search
// @Produce json
// @Param q query string true "Query, 2-100 characters"
// @Param type query string false "all, ideas, users, comments or categories"
// @Param page query int false "Page"
// @Param limit query int false "Page size, max 50"
// @Success 200 {object} service.SearchResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /search [get]
func (s *Server) Search(c *fiber.Ctx) error {
	res, err := s.searchService.Search(c.UserContext(), optionalActor(c), service.SearchInput{
		Query: c.Query("q"),
		Type:  c.Query("type", service.SearchAll),
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", service.DefaultPageLimit),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(res)
}
