package middleware

import (
	"context"
	"strings"

	"devconnect/internal/models"
	"devconnect/internal/token"

	"github.com/gofiber/fiber/v2"
)

// UserResolver looks up a user by ID while requiring the presented token to
// still be a member of the user's active-token list. A nil user without error
// means no match (unknown user or revoked token).
type UserResolver interface {
	GetByIDWithToken(ctx context.Context, id uint, tok string) (*models.User, error)
}

// Auth resolves a request's bearer credential into a verified identity. Every
// failure mode collapses into the same 401 response so callers cannot probe
// which check failed.
type Auth struct {
	codec *token.Codec
	users UserResolver
}

// NewAuth creates the authentication middleware with its dependencies injected.
func NewAuth(codec *token.Codec, users UserResolver) *Auth {
	return &Auth{codec: codec, users: users}
}

// RequireAuth enforces authentication for protected routes. On success the
// resolved user ID is stored in c.Locals("userID") and in the request context
// for logging; the raw token is not propagated downstream.
func (a *Auth) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return a.fail(c)
		}

		userID, err := a.codec.Verify(tok)
		if err != nil {
			return a.fail(c)
		}

		// Signature validity is not enough: the token must also still be in
		// the user's active list, so an explicit logout wins over expiry.
		user, err := a.users.GetByIDWithToken(c.Context(), userID, tok)
		if err != nil || user == nil {
			return a.fail(c)
		}

		c.Locals("userID", user.ID)
		ctx := context.WithValue(c.UserContext(), UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func (a *Auth) fail(c *fiber.Ctx) error {
	AuthFailures.Inc()
	return models.RespondWithError(c, fiber.StatusUnauthorized,
		models.NewUnauthorizedError("Please authenticate"))
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
