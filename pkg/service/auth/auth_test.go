package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	infracache "github.com/spotavibe/spotavibe/infra/cache"
	"github.com/spotavibe/spotavibe/internal/fixtures/mocks"
	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/pkg/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_HeaderErrors(t *testing.T) {
	strategy := mocks.NewStrategy(t)
	svc := New(strategy, nil, 0, slog.Default())

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", user.ErrMissingToken},
		{"no bearer prefix", "Token abc", user.ErrMalformedToken},
		{"empty token", "Bearer ", user.ErrMalformedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tt.header)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, user.ErrUserUnauthorized)
		})
	}
	strategy.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestAuthenticate_StrategyFailureIsUnauthorized(t *testing.T) {
	strategy := mocks.NewStrategy(t)
	strategy.On("Verify", mock.Anything, "bad").Return(nil, errors.New("network down")).Once()

	svc := New(strategy, nil, 0, slog.Default())
	id, err := svc.Authenticate(context.Background(), "Bearer bad")
	assert.Nil(t, id)
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)
}

func TestAuthenticate_CachesOnlySuccess(t *testing.T) {
	store := infracache.NewMemoryCache()
	defer store.Close() //nolint:errcheck

	strategy := mocks.NewStrategy(t)
	strategy.On("Verify", mock.Anything, "good").
		Return(&user.Identity{ID: "user-1", Email: "fan@example.com"}, nil).Once()
	strategy.On("Verify", mock.Anything, "bad").
		Return(nil, user.ErrUserUnauthorized).Twice()

	svc := New(strategy, store, time.Minute, slog.Default())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := svc.Authenticate(ctx, "Bearer good")
		require.NoError(t, err)
		assert.Equal(t, "user-1", id.ID)
		assert.Equal(t, "fan@example.com", id.Email)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Authenticate(ctx, "Bearer bad")
		assert.ErrorIs(t, err, user.ErrUserUnauthorized)
	}
}

func TestSupabaseStrategy_Verify(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		if r.Header.Get("Authorization") != "Bearer valid-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"8d0f7c1e-0000-4000-8000-000000000001","email":"fan@example.com","aud":"authenticated"}`))
	}))
	defer server.Close()

	svc := NewWithSupabase(&config.Supabase{
		Url:         server.URL + "/",
		AnonKey:     "anon-key",
		HTTPTimeout: 2 * time.Second,
	}, nil, 0, slog.Default())

	id, err := svc.Authenticate(context.Background(), "Bearer valid-token")
	require.NoError(t, err)
	assert.Equal(t, "8d0f7c1e-0000-4000-8000-000000000001", id.ID)
	assert.Equal(t, "fan@example.com", id.Email)

	_, err = svc.Authenticate(context.Background(), "Bearer expired-token")
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestSupabaseStrategy_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	strategy := NewSupabaseStrategy(&config.Supabase{Url: url, HTTPTimeout: time.Second}, nil)
	_, err := strategy.Verify(context.Background(), "token")
	assert.Error(t, err)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims, method jwt.SigningMethod) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTStrategy_Verify(t *testing.T) {
	const secret = "super-secret-jwt-token-with-at-least-32-characters"
	strategy := NewJWTStrategy(&config.Supabase{JwtSecret: secret}, slog.Default())
	ctx := context.Background()
	future := time.Now().Add(time.Hour).Unix()

	valid := signToken(t, secret, jwt.MapClaims{
		"sub": "user-1", "email": "fan@example.com", "aud": "authenticated", "exp": future,
	}, jwt.SigningMethodHS256)
	id, err := strategy.Verify(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.ID)
	assert.Equal(t, "fan@example.com", id.Email)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", signToken(t, secret, jwt.MapClaims{
			"sub": "user-1", "aud": "authenticated", "exp": time.Now().Add(-time.Minute).Unix(),
		}, jwt.SigningMethodHS256)},
		{"wrong audience", signToken(t, secret, jwt.MapClaims{
			"sub": "user-1", "aud": "anon", "exp": future,
		}, jwt.SigningMethodHS256)},
		{"wrong secret", signToken(t, "another-secret-another-secret-another", jwt.MapClaims{
			"sub": "user-1", "aud": "authenticated", "exp": future,
		}, jwt.SigningMethodHS256)},
		{"missing exp", signToken(t, secret, jwt.MapClaims{
			"sub": "user-1", "aud": "authenticated",
		}, jwt.SigningMethodHS256)},
		{"missing sub", signToken(t, secret, jwt.MapClaims{
			"aud": "authenticated", "exp": future,
		}, jwt.SigningMethodHS256)},
		{"wrong algorithm", signToken(t, secret, jwt.MapClaims{
			"sub": "user-1", "aud": "authenticated", "exp": future,
		}, jwt.SigningMethodHS512)},
		{"garbage", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := strategy.Verify(ctx, tt.token)
			assert.ErrorIs(t, err, user.ErrUserUnauthorized)
		})
	}
}

func TestJWTStrategy_NoSecret(t *testing.T) {
	strategy := NewJWTStrategy(&config.Supabase{}, nil)
	_, err := strategy.Verify(context.Background(), "anything")
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)
}
