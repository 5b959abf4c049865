package middleware

import (
	"context"
	"strings"

	"spincat/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenAuthenticator resolves a bearer token to the admin it belongs to.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (uint, error)
}

// AdminAuth lets a request through only with a live admin session. The admin id
// is stored in Locals under LocalAdminID and in the request context. Every
// failure gets the same 401 so callers learn nothing about why.
func AdminAuth(auth TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		adminID, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return models.Respond(c, err)
		}

		c.Locals(LocalAdminID, adminID)
		c.SetUserContext(WithAdminID(c.UserContext(), adminID))
		return c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
