package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/pkg/domain/user"
)

// SupabaseStrategy verifies tokens by calling GET /auth/v1/user on the
// Supabase project.
type SupabaseStrategy struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *slog.Logger
}

type supabaseUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewSupabaseStrategy creates a SupabaseStrategy from config.
func NewSupabaseStrategy(cfg *config.Supabase, logger *slog.Logger) *SupabaseStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &SupabaseStrategy{
		baseURL: strings.TrimRight(cfg.Url, "/"),
		anonKey: cfg.AnonKey,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger.With("strategy", "supabase"),
	}
}

// Verify implements Strategy. Any non-200 answer is unauthorized.
func (s *SupabaseStrategy) Verify(ctx context.Context, token string) (*user.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build supabase request: %w", err)
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Supabase auth request failed", "error", err)
		return nil, fmt.Errorf("supabase auth request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.logger.Debug("Supabase rejected token", "status", resp.StatusCode, "body", string(body))
		return nil, user.ErrUserUnauthorized
	}

	var u supabaseUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode supabase user: %w", err)
	}
	return user.NewIdentity(u.ID, u.Email)
}
