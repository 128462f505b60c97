package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the fiber locals key under which validated claims are stored.
const ClaimsKey = "authClaims"

// Middleware returns a fiber handler that requires a valid bearer token and
// stores its claims in the request locals.
func (s *Service) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := s.Verify(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}
