package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/pkg/domain/user"
)

// supabaseAudience is the aud claim Supabase puts on user access tokens.
const supabaseAudience = "authenticated"

// JWTStrategy verifies Supabase access tokens locally with the project's
// JWT secret.
type JWTStrategy struct {
	secret []byte
	logger *slog.Logger
}

type supabaseClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTStrategy creates a JWTStrategy from config.
func NewJWTStrategy(cfg *config.Supabase, logger *slog.Logger) *JWTStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &JWTStrategy{secret: []byte(cfg.JwtSecret), logger: logger.With("strategy", "jwt")}
}

// Verify implements Strategy.
func (s *JWTStrategy) Verify(_ context.Context, token string) (*user.Identity, error) {
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: jwt secret not configured", user.ErrUserUnauthorized)
	}
	claims := &supabaseClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(supabaseAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		s.logger.Debug("JWT verification failed", "error", err)
		return nil, user.ErrUserUnauthorized
	}
	return user.NewIdentity(claims.Subject, claims.Email)
}
