package middleware

import (
	"errors"
	"strings"

	"loanflow/internal/config"
	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/jwt"
	"loanflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// AuthMiddleware creates authentication middleware.
// The access token is read from the access_token cookie or the Bearer header.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(actorKey, claims.Actor())
		c.Locals("userID", claims.UserID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RequireRole creates role-based authorization middleware
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, role := range allowed {
			if actor.Role == role {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// OfficerOnly allows only OFFICER role
func OfficerOnly() fiber.Handler {
	return RequireRole(domain.RoleOfficer)
}

// CustomerOnly allows only CUSTOMER role
func CustomerOnly() fiber.Handler {
	return RequireRole(domain.RoleCustomer)
}

// ActorFrom returns the caller set by AuthMiddleware
func ActorFrom(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := c.Locals(actorKey).(domain.Actor)
	return actor, ok
}

func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
