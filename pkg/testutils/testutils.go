package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory SQLite database and migrates the
// given models into it.
func NewSQLiteDB(t testing.TB, models ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sqlite handle: %v", err)
	}
	// SQLite serialises writers; one connection avoids "table is locked".
	sqlDB.SetMaxOpenConns(1)
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("Failed to migrate sqlite: %v", err)
		}
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// MakeRequestWithApp sends a request through app.Test. A non-empty body is
// sent as JSON and a non-empty token as a bearer credential.
func MakeRequestWithApp(app *fiber.App, method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err) // For standalone tests, panic on error
	}
	return resp
}

// SignWebhookPayload returns a Stripe-Signature header for payload.
func SignWebhookPayload(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	}).Header
}

// CheckoutCompletedPayload builds a checkout.session.completed event body.
func CheckoutCompletedPayload(eventID, sessionID string, amountTotal int64, metadata map[string]string) []byte {
	meta, err := json.Marshal(metadata)
	if err != nil {
		panic(err)
	}
	return []byte(fmt.Sprintf(`{
  "id": %q,
  "object": "event",
  "type": "checkout.session.completed",
  "created": 1714564800,
  "data": {"object": {
    "id": %q,
    "object": "checkout.session",
    "amount_total": %d,
    "currency": "usd",
    "payment_status": "paid",
    "created": 1714564700,
    "metadata": %s
  }}
}`, eventID, sessionID, amountTotal, string(meta)))
}

// StartPostgresContainer starts a Postgres container and returns its DSN.
func StartPostgresContainer(ctx context.Context) (*tcpostgres.PostgresContainer, string, error) {
	pg, err := tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}
	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, "", err
	}
	return pg, dsn, nil
}

// TestWebhookSecret signs webhook payloads in tests.
const TestWebhookSecret = "whsec_test_secret"

// NewTestConfig returns a fully populated configuration for tests. It does
// not read the environment.
func NewTestConfig() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "127.0.0.1", Port: 3000},
		Log:    &config.Log{Format: "text", TimeFormat: time.DateTime, Prefix: "[spotavibe]"},
		DB:     &config.DB{Url: "file::memory:"},
		Supabase: &config.Supabase{
			Url:         "http://127.0.0.1:54321",
			AnonKey:     "anon-key",
			JwtSecret:   "super-secret-jwt-token-with-at-least-32-characters",
			HTTPTimeout: 2 * time.Second,
		},
		Auth: &config.Auth{Strategy: "jwt", CacheTTL: 30 * time.Second},
		Stripe: &config.Stripe{
			SecretKey:                "sk_test_123",
			WebhookSecret:            TestWebhookSecret,
			Currency:                 "usd",
			SuccessURL:               "http://localhost:5173/success",
			CancelURL:                "http://localhost:5173/cancel",
			IgnoreAPIVersionMismatch: true,
		},
		Cors:      &config.Cors{AllowOrigins: "http://localhost:5173"},
		Redis:     &config.Redis{KeyPrefix: "spotavibe:test:"},
		Portfolio: &config.Portfolio{CacheTTL: 30 * time.Second},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		EventBus:  &config.EventBus{Driver: "memory", Kafka: &config.Kafka{}},
		Sentry:    &config.Sentry{},
	}
}
