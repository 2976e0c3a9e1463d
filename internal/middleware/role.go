package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jobmate-app/jobmate-be/internal/utils"
)

// RequireRoles is the single place role authorization happens; handlers
// only ever check resource ownership.
func RequireRoles(allowed ...string) fiber.Handler {
	allowedSet := map[string]bool{}
	for _, r := range allowed {
		allowedSet[strings.ToLower(r)] = true
	}

	return func(c *fiber.Ctx) error {
		raw := c.Locals("user")
		if raw == nil {
			return unauthorizedJSON(c)
		}

		token, ok := raw.(*jwt.Token)
		if !ok || token == nil {
			return unauthorizedJSON(c)
		}

		claims, ok := token.Claims.(*utils.Claims)
		if !ok {
			return unauthorizedJSON(c)
		}

		role := strings.ToLower(strings.TrimSpace(claims.Role))
		if !allowedSet[role] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "forbidden: insufficient role",
			})
		}

		return c.Next()
	}
}
