package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"spincat/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authenticatorFunc func(ctx context.Context, token string) (uint, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, token string) (uint, error) {
	return f(ctx, token)
}

func TestAdminAuth(t *testing.T) {
	auth := authenticatorFunc(func(_ context.Context, token string) (uint, error) {
		switch token {
		case "good":
			return 42, nil
		case "broken-store":
			return 0, models.NewStorageError(errors.New("db down"))
		}
		return 0, models.NewUnauthorizedError("Unauthorized")
	})

	app := fiber.New()
	app.Get("/admin", AdminAuth(auth), func(c *fiber.Ctx) error {
		id, _ := AdminIDFromContext(c.UserContext())
		return c.JSON(fiber.Map{"local": c.Locals(LocalAdminID), "ctx": id})
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"Happy Path", "Bearer good", http.StatusOK},
		{"Lowercase Scheme", "bearer good", http.StatusOK},
		{"Missing Header", "", http.StatusUnauthorized},
		{"Malformed Bearer Format", "BearerTokenOnly", http.StatusUnauthorized},
		{"Wrong Scheme", "Basic good", http.StatusUnauthorized},
		{"Extra Parts", "Bearer good extra", http.StatusUnauthorized},
		{"Unknown Token", "Bearer nope", http.StatusUnauthorized},
		{"Store Failure", "Bearer broken-store", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			switch tt.expectedStatus {
			case http.StatusOK:
				assert.Equal(t, float64(42), body["local"])
				assert.Equal(t, float64(42), body["ctx"])
			case http.StatusUnauthorized:
				assert.Equal(t, "Unauthorized", body["error"])
				assert.Equal(t, models.CodeUnauthorized, body["code"])
			}
		})
	}
}
