package handlers

import (
	"errors"
	"log/slog"

	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the response envelope.
// Server faults are logged and answered with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	switch kind := domain.Kind(err); {
	case errors.Is(kind, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(kind, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	case errors.Is(kind, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(kind, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(kind, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	default:
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return response.InternalServerError(c, "internal server error")
	}
}
