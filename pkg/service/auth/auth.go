package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spotavibe/spotavibe/pkg/cache"
	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/pkg/domain/user"
	"golang.org/x/sync/singleflight"
)

const identityCachePrefix = "auth:identity:"

// Strategy resolves a bearer token to the identity it was issued for.
type Strategy interface {
	Verify(ctx context.Context, token string) (*user.Identity, error)
}

// Service authenticates requests against the configured Strategy. Verified
// identities may be cached for a short TTL; failures are never cached.
type Service struct {
	strategy Strategy
	cache    cache.Store
	ttl      time.Duration
	inflight singleflight.Group
	logger   *slog.Logger
}

// New creates a Service. A nil store or a non-positive ttl disables caching.
func New(
	strategy Strategy,
	store cache.Store,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{strategy: strategy, cache: store, ttl: ttl, logger: logger}
}

// NewWithSupabase creates a Service that asks Supabase Auth for every
// uncached token.
func NewWithSupabase(
	cfg *config.Supabase,
	store cache.Store,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	return New(NewSupabaseStrategy(cfg, logger), store, ttl, logger)
}

// NewWithJWT creates a Service that verifies Supabase access tokens locally.
func NewWithJWT(
	cfg *config.Supabase,
	store cache.Store,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	return New(NewJWTStrategy(cfg, logger), store, ttl, logger)
}

// Authenticate resolves an Authorization header value to an identity. Every
// failure wraps user.ErrUserUnauthorized.
func (s *Service) Authenticate(
	ctx context.Context,
	authorizationHeader string,
) (*user.Identity, error) {
	log := s.logger.With("handler", "auth.Authenticate")

	token, err := user.ExtractBearerToken(authorizationHeader)
	if err != nil {
		log.Debug("Rejected authorization header", "error", err)
		return nil, fmt.Errorf("%w: %w", user.ErrUserUnauthorized, err)
	}

	key := identityCachePrefix + tokenDigest(token)
	if id := s.cached(ctx, key); id != nil {
		return id, nil
	}

	v, err, shared := s.inflight.Do(key, func() (any, error) {
		return s.strategy.Verify(ctx, token)
	})
	if err != nil {
		log.Warn("Token verification failed", "error", err, "shared", shared)
		if errors.Is(err, user.ErrUserUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", user.ErrUserUnauthorized, err)
	}
	identity, ok := v.(*user.Identity)
	if !ok || identity == nil || identity.ID == "" {
		return nil, user.ErrUserUnauthorized
	}

	s.store(ctx, key, identity)
	log.Debug("Token verified", "user_id", identity.ID)
	return identity, nil
}

func (s *Service) cached(ctx context.Context, key string) *user.Identity {
	if s.cache == nil || s.ttl <= 0 {
		return nil
	}
	id, ok, err := cache.GetJSON[user.Identity](ctx, s.cache, key)
	if err != nil {
		s.logger.Warn("Identity cache read failed", "error", err)
		return nil
	}
	if !ok || id.ID == "" {
		return nil
	}
	return id
}

func (s *Service) store(ctx context.Context, key string, id *user.Identity) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := cache.SetJSON(ctx, s.cache, key, id, s.ttl); err != nil {
		s.logger.Warn("Identity cache write failed", "error", err)
	}
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
