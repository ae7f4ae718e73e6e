package middleware

import (
	"strings"

	"shomiti-fund/internal/config"
	"shomiti-fund/internal/core/domain"
	"shomiti-fund/internal/pkg/jwt"
	"shomiti-fund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the access token and attaches the verified
// identity claim to the request context. Services downstream trust these
// locals and never re-read the role from the store.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("memberID", claims.MemberID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// extractToken reads the token from cookie first, then the Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// Actor builds the verified identity claim from the request context.
// Must run after AuthMiddleware.
func Actor(c *fiber.Ctx) domain.Actor {
	memberID, _ := c.Locals("memberID").(string)
	role, _ := c.Locals("role").(string)
	return domain.Actor{MemberID: memberID, Role: domain.Role(role)}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// OwnerOnly middleware allows only the fund owner
func OwnerOnly() fiber.Handler {
	return RoleMiddleware(string(domain.RoleOwner))
}

// ManagerOrOwner middleware allows manager or owner roles
func ManagerOrOwner() fiber.Handler {
	return RoleMiddleware(string(domain.RoleManager), string(domain.RoleOwner))
}
