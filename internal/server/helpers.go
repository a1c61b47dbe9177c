package server

import (
	"errors"
	"io"
	"strings"

	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	localUserID = "userID"
	localUser   = "user"
	localClaims = "claims"
)

// parseUUID extracts a route parameter as a UUID. On failure it writes a
// 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "idea_id" -> "idea ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if prefix, ok := strings.CutSuffix(param, "_id"); ok {
		return strings.ReplaceAll(prefix, "_", " ") + " ID"
	}
	return param
}

// parseBody decodes the request body into dst. On failure it writes a 400
// JSON response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// respondServiceError maps a service error onto the JSON error envelope.
// Errors that are not AppErrors are logged and hidden behind a 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if appErr.Code == models.CodeInternal {
			middleware.Logger.ErrorContext(c.UserContext(), "request failed",
				"path", c.Path(), "error", err)
		}
		return models.RespondWithError(c, appErr.Status(), appErr)
	}
	middleware.Logger.ErrorContext(c.UserContext(), "request failed",
		"path", c.Path(), "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// currentUser returns the authenticated user set by AuthRequired or
// OptionalAuth.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localUser).(*models.User)
	return user
}

// currentActor returns the authenticated caller. Only valid behind
// AuthRequired.
func currentActor(c *fiber.Ctx) service.Actor {
	user := currentUser(c)
	if user == nil {
		return service.Actor{}
	}
	return service.Actor{ID: user.ID, IsAdmin: user.IsAdmin}
}

// optionalActor is the caller behind OptionalAuth, or nil when anonymous.
func optionalActor(c *fiber.Ctx) *service.Actor {
	if currentUser(c) == nil {
		return nil
	}
	actor := currentActor(c)
	return &actor
}

// viewerID is the caller's id for per-user fields such as userVote.
func viewerID(c *fiber.Ctx) *uuid.UUID {
	user := currentUser(c)
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}

// formImage reads an optional multipart image field. A missing field
// yields nil.
func formImage(c *fiber.Ctx, field string) (*service.UploadImageInput, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.UploadImageInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

func limitReached(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusTooManyRequests, models.NewRateLimitError())
}
