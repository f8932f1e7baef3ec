package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/spotavibe/spotavibe/pkg/domain/user"
)

const identityLocalsKey = "identity"

// Authenticator resolves an Authorization header to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (*user.Identity, error)
}

// Protected rejects requests without a verifiable bearer token with 401
// and stores the identity for downstream handlers.
func Protected(auth Authenticator, unauthorized fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := auth.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil || identity == nil {
			return unauthorized(c)
		}
		c.Locals(identityLocalsKey, identity)
		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by Protected.
func CurrentIdentity(c *fiber.Ctx) (*user.Identity, bool) {
	identity, ok := c.Locals(identityLocalsKey).(*user.Identity)
	return identity, ok && identity != nil
}
