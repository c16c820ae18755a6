// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"crypto/md5"
	"fmt"
	"strings"

	"devconnect/internal/middleware"
	"devconnect/internal/models"
	"devconnect/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// respondServiceError maps a service-layer error onto the API's status
// conventions. Domain not-found is a 400 with its message, never a 404:
// clients treat "no profile" as a form-level error, not a missing route.
// Internal and upstream failures are logged and answered generically.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	appErr, ok := err.(*models.AppError)
	if !ok {
		observability.RecordErrorInContext(c.UserContext(), err)
		middleware.Logger.ErrorContext(c.UserContext(), "Unexpected error",
			"error", err.Error(), "path", c.Path())
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	switch appErr.Code {
	case "NOT_FOUND", "VALIDATION_ERROR":
		return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
	case "CONFLICT":
		return models.RespondWithError(c, fiber.StatusConflict, appErr)
	case "UNAUTHORIZED":
		return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
	default:
		observability.RecordErrorInContext(c.UserContext(), appErr)
		middleware.Logger.ErrorContext(c.UserContext(), "Service error",
			"code", appErr.Code, "error", appErr.Error(), "path", c.Path())
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(appErr))
	}
}

// currentUserID reads the authenticated user's ID set by RequireAuth.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// gravatarURL derives a stable avatar URL from the user's email.
func gravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
