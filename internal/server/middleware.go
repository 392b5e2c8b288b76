package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"wingo/internal/auth"
	"wingo/internal/wingo"
)

const principalKey = "principal"

// authenticate resolves the bearer token into the caller principal. A missing
// header is the anonymous caller; a bad token is rejected outright.
func (s *FiberServer) authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		c.Locals(principalKey, wingo.Anonymous)
		return c.Next()
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header must be a bearer token",
		})
	}

	p, err := auth.ParseToken(strings.TrimSpace(token), s.cfg.JWTSecret)
	if err != nil {
		s.log.WithError(err).Debug("token rejected")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}
	c.Locals(principalKey, p)
	return c.Next()
}

func caller(c *fiber.Ctx) wingo.Principal {
	p, _ := c.Locals(principalKey).(wingo.Principal)
	return p
}
