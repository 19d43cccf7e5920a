package middleware

import (
	"errors"
	"strings"

	"agriconnect/internal/config"
	"agriconnect/internal/core/domain"
	"agriconnect/internal/pkg/jwt"
	"agriconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Context keys set by AuthMiddleware
const (
	LocalUserID = "userID"
	LocalRole   = "role"
)

// AuthMiddleware verifies the bearer token and stores the identity on the request
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "No token, authorization denied")
		}

		accessToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if accessToken == "" {
			return response.Unauthorized(c, "No token, authorization denied")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Token expired")
			}
			return response.Unauthorized(c, "Token is not valid")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, domain.Role(claims.Role))

		return c.Next()
	}
}

// RoleMiddleware lets through only the listed roles. No roles means any authenticated user.
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(domain.Role)
		if !ok {
			return response.Unauthorized(c, "No token, authorization denied")
		}
		if len(allowedRoles) == 0 {
			return c.Next()
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "Forbidden: Insufficient role")
	}
}

// CurrentUser returns the identity stored by AuthMiddleware
func CurrentUser(c *fiber.Ctx) (uint, domain.Role) {
	userID, _ := c.Locals(LocalUserID).(uint)
	role, _ := c.Locals(LocalRole).(domain.Role)
	return userID, role
}
