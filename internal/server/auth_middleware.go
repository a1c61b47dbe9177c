package server

import (
	"errors"

	"agora/internal/middleware"
	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// authenticate resolves the bearer token to an active user. Token problems
// come back as middleware.ErrToken* values.
func (s *Server) authenticate(c *fiber.Ctx) (*models.User, *middleware.Claims, error) {
	raw, err := middleware.BearerToken(c)
	if err != nil {
		return nil, nil, err
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	if middleware.IsTokenRevoked(c.UserContext(), s.redis, claims.ID) {
		return nil, nil, middleware.ErrTokenRevoked
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, middleware.ErrTokenInvalid
	}
	user, err := s.userService.GetActiveUser(c.UserContext(), userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, nil, middleware.ErrTokenInvalid
		}
		return nil, nil, err
	}
	return user, claims, nil
}

func (s *Server) setCaller(c *fiber.Ctx, user *models.User, claims *middleware.Claims) {
	c.Locals(localUserID, user.ID)
	c.Locals(localUser, user)
	c.Locals(localClaims, claims)
	c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))
}

// AuthRequired rejects requests without a valid, unrevoked token for an
// active user.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := s.authenticate(c)
		if err != nil {
			if isTokenError(err) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError(middleware.AuthFailureMessage(err)))
			}
			return respondServiceError(c, err)
		}
		s.setCaller(c, user, claims)
		return c.Next()
	}
}

// OptionalAuth identifies the caller when it can and otherwise continues
// anonymously.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, claims, err := s.authenticate(c); err == nil {
			s.setCaller(c, user, claims)
		}
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that the user is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		if user == nil || !user.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

func isTokenError(err error) bool {
	return errors.Is(err, middleware.ErrTokenMissing) ||
		errors.Is(err, middleware.ErrTokenExpired) ||
		errors.Is(err, middleware.ErrTokenInvalid) ||
		errors.Is(err, middleware.ErrTokenRevoked)
}
