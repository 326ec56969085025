package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/hint-engine-api/internal/utils"
)

// APIKeyProtected guards the plugin-facing hint endpoint with a shared key
// carried in the X-API-Key header. An empty configured key disables the
// check, which keeps local development friction-free.
func APIKeyProtected(expected string) fiber.Handler {
	expected = strings.TrimSpace(expected)

	return func(c *fiber.Ctx) error {
		if expected == "" {
			return c.Next()
		}

		provided := strings.TrimSpace(c.Get("X-API-Key"))
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid API key")
		}

		return c.Next()
	}
}
