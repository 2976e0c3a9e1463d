package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jobmate-app/jobmate-be/internal/utils"
)

// tokenFromRequest looks for the credential in order of precedence:
// HttpOnly cookie, x-auth-token header, Authorization bearer header.
func tokenFromRequest(c *fiber.Ctx) string {
	if tok := c.Cookies("jm_token"); tok != "" {
		return tok
	}
	if tok := c.Get("x-auth-token"); tok != "" {
		return tok
	}
	auth := c.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

func RequireLogin(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization denied",
			})
		}

		token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token is not valid",
			})
		}

		c.Locals("user", token)
		return c.Next()
	}
}
