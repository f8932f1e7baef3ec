package user

import (
	"errors"
	"strings"
)

var (
	// ErrUserUnauthorized is returned when a credential cannot be resolved
	// to a user by the identity provider.
	ErrUserUnauthorized = errors.New("invalid or missing Supabase auth token")
	// ErrMissingToken is returned when no Authorization header is present.
	ErrMissingToken = errors.New("missing authorization header")
	// ErrMalformedToken is returned when the Authorization header is not a
	// bearer credential.
	ErrMalformedToken = errors.New("malformed authorization header")
)

// Identity is an authenticated user as reported by the identity provider.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewIdentity validates and builds an Identity.
func NewIdentity(id, email string) (*Identity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrUserUnauthorized
	}
	return &Identity{ID: id, Email: strings.TrimSpace(email)}, nil
}

const bearerPrefix = "Bearer "

// ExtractBearerToken returns the credential carried by an
// "Authorization: Bearer <token>" header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMalformedToken
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMalformedToken
	}
	return token, nil
}
