package middleware

import (
	"errors"
	"strings"

	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/config"
	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/pkg/jwt"
	"hackco-expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ActorKey is the locals key the authenticated actor is stored under
const ActorKey = "actor"

// AuthMiddleware creates authentication middleware. The user is re-read on
// every request so role and manager changes apply immediately, not at the
// next token refresh.
func AuthMiddleware(cfg *config.Config, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var token string

		// 1. Try to get token from cookie first
		token = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if token == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if token == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateToken(token, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Load the user behind the token
		user, err := userRepo.GetByPublicID(c.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.Unauthorized(c, "Account no longer exists")
			}
			return response.InternalServerError(c, "Failed to load account")
		}

		c.Locals(ActorKey, &domain.Actor{
			ID:        user.PublicID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      domain.Role(user.Role),
			ManagerID: user.ManagerID,
		})

		return c.Next()
	}
}

// GetActor returns the authenticated actor set by AuthMiddleware
func GetActor(c *fiber.Ctx) *domain.Actor {
	actor, _ := c.Locals(ActorKey).(*domain.Actor)
	return actor
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowed := range allowedRoles {
			if actor.Role == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// ManagerOrAdmin middleware allows manager or admin roles
func ManagerOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleManager, domain.RoleAdmin)
}
