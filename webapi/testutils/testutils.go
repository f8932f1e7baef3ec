// Package testutils builds a fully wired application for HTTP tests. The
// database is an in-memory SQLite store, Stripe is a local stub and tokens
// are signed with the test JWT secret.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	infracache "github.com/spotavibe/spotavibe/infra/cache"
	"github.com/spotavibe/spotavibe/infra/eventbus"
	"github.com/spotavibe/spotavibe/infra/provider/stripepayment"
	artistrepo "github.com/spotavibe/spotavibe/infra/repository/artist"
	txrepo "github.com/spotavibe/spotavibe/infra/repository/transaction"
	"github.com/spotavibe/spotavibe/pkg/app"
	"github.com/spotavibe/spotavibe/pkg/config"
	pkgtestutils "github.com/spotavibe/spotavibe/pkg/testutils"
	"github.com/spotavibe/spotavibe/webapi"
	"gorm.io/gorm"
)

// StripeStub answers checkout session creation like the Stripe API.
type StripeStub struct {
	Server *httptest.Server

	mu       sync.Mutex
	forms    []map[string]string
	counter  atomic.Int64
	failWith string
}

// NewStripeStub starts the stub. It is closed with the test.
func NewStripeStub(t testing.TB) *StripeStub {
	t.Helper()
	s := &StripeStub{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Server.Close)
	return s
}

// FailWith makes subsequent calls return a card error with message.
func (s *StripeStub) FailWith(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = message
}

// Requests returns the decoded form bodies received so far.
func (s *StripeStub) Requests() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string{}, s.forms...)
}

func (s *StripeStub) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
		http.NotFound(w, r)
		return
	}
	_ = r.ParseForm()
	form := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}

	s.mu.Lock()
	s.forms = append(s.forms, form)
	failWith := s.failWith
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failWith != "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": failWith},
		})
		return
	}
	id := fmt.Sprintf("cs_test_%d", s.counter.Add(1))
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     id,
		"object": "checkout.session",
		"url":    "https://checkout.stripe.com/c/pay/" + id,
	})
}

// TestApp bundles the application under test with its collaborators.
type TestApp struct {
	Fiber  *fiber.App
	App    *app.App
	DB     *gorm.DB
	Bus    *eventbus.MemoryEventBus
	Stripe *StripeStub
	Config *config.App
}

// NewTestApp wires the real services against local fakes.
func NewTestApp(t testing.TB) *TestApp {
	t.Helper()
	cfg := pkgtestutils.NewTestConfig()
	stub := NewStripeStub(t)
	cfg.Stripe.BackendURL = stub.Server.URL

	db := pkgtestutils.NewSQLiteDB(t, &txrepo.Transaction{}, &artistrepo.Artist{})
	store := infracache.NewMemoryCache()
	t.Cleanup(func() { _ = store.Close() })
	bus := eventbus.NewWithMemory(nil, eventbus.RecordEvents())

	a := app.New(&app.Deps{
		TransactionRepo: txrepo.New(db),
		ArtistRepo:      artistrepo.New(db),
		PaymentGateway:  stripepayment.New(cfg.Stripe, slog.Default()),
		Cache:           store,
		EventBus:        bus,
	}, cfg)

	return &TestApp{
		Fiber:  webapi.SetupApp(a),
		App:    a,
		DB:     db,
		Bus:    bus,
		Stripe: stub,
		Config: cfg,
	}
}

// Token signs a Supabase-style access token for the test JWT secret.
func (ta *TestApp) Token(t testing.TB, userID, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"aud":   "authenticated",
		"role":  "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(ta.Config.Supabase.JwtSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// SeedArtist gives userID the artist profile name.
func (ta *TestApp) SeedArtist(t testing.TB, userID, name string) {
	t.Helper()
	row := &artistrepo.Artist{ID: uuid.New(), UserID: userID, ArtistName: name}
	if err := ta.DB.Create(row).Error; err != nil {
		t.Fatalf("seed artist: %v", err)
	}
}

// Request performs a JSON request against the app.
func (ta *TestApp) Request(method, path, body, token string) *http.Response {
	return pkgtestutils.MakeRequestWithApp(ta.Fiber, method, path, body, token)
}

// Webhook posts a signed notification.
func (ta *TestApp) Webhook(payload []byte) *http.Response {
	return ta.WebhookWithSignature(payload, pkgtestutils.SignWebhookPayload(payload, ta.Config.Stripe.WebhookSecret))
}

// WebhookWithSignature posts payload with an arbitrary signature header.
func (ta *TestApp) WebhookWithSignature(payload []byte, signature string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	resp, err := ta.Fiber.Test(req, -1)
	if err != nil {
		panic(err)
	}
	return resp
}

// CountTransactions returns the number of stored rows.
func (ta *TestApp) CountTransactions(t testing.TB) int64 {
	t.Helper()
	var n int64
	if err := ta.DB.Model(&txrepo.Transaction{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// Rebuild returns a new Fiber app for ta after its config was changed.
func Rebuild(ta *TestApp) *fiber.App {
	ta.Fiber = webapi.SetupApp(ta.App)
	return ta.Fiber
}
