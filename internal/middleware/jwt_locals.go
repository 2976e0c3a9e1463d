package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jobmate-app/jobmate-be/internal/utils"
)

// unauthorizedJSON keeps rejections in the same body shape the rest of
// the API uses.
func unauthorizedJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Token is not valid",
	})
}

// AttachJWTLocals copies the verified subject id and role out of the token
// into request locals so handlers never touch raw claims.
func AttachJWTLocals() fiber.Handler {
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

		uid := strings.TrimSpace(claims.UserID)
		role := strings.ToLower(strings.TrimSpace(claims.Role))
		if uid == "" {
			return unauthorizedJSON(c)
		}

		c.Locals("userId", uid)
		c.Locals("role", role)

		return c.Next()
	}
}
