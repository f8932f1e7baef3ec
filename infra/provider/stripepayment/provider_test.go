package stripepayment

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/pkg/provider/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func newTestProvider(t *testing.T, backendURL string) *StripePaymentProvider {
	t.Helper()
	return New(&config.Stripe{
		SecretKey:                "sk_test_123",
		WebhookSecret:            testWebhookSecret,
		Currency:                 "usd",
		IgnoreAPIVersionMismatch: true,
		BackendURL:               backendURL,
	}, slog.Default())
}

func sign(payload string) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

func TestCreateCheckoutSession_SendsLineItemAndMetadata(t *testing.T) {
	var form map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_123","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_123"}`))
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	session, err := p.CreateCheckoutSession(context.Background(), &payment.CheckoutSessionParams{
		ProductName:   "Investment in Artist #42",
		UnitAmount:    2500,
		Currency:      "usd",
		CustomerEmail: "fan@example.com",
		Metadata: map[string]string{
			payment.MetadataArtistID:  "42",
			payment.MetadataUserID:    "user-1",
			payment.MetadataUserEmail: "fan@example.com",
		},
		SuccessURL: "http://localhost:5173/success",
		CancelURL:  "http://localhost:5173/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", session.URL)

	assert.Equal(t, "payment", form["mode"])
	assert.Equal(t, "card", form["payment_method_types[0]"])
	assert.Equal(t, "2500", form["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "usd", form["line_items[0][price_data][currency]"])
	assert.Equal(t, "Investment in Artist #42", form["line_items[0][price_data][product_data][name]"])
	assert.Equal(t, "1", form["line_items[0][quantity]"])
	assert.Equal(t, "fan@example.com", form["customer_email"])
	assert.Equal(t, "42", form["metadata[artistId]"])
	assert.Equal(t, "user-1", form["metadata[userId]"])
	assert.Equal(t, "fan@example.com", form["metadata[userEmail]"])
	assert.Equal(t, "http://localhost:5173/success", form["success_url"])
	assert.Equal(t, "http://localhost:5173/cancel", form["cancel_url"])
}

func TestCreateCheckoutSession_GatewayErrorCarriesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid currency: xyz"}}`))
	}))
	defer server.Close()

	p := newTestProvider(t, server.URL)
	_, err := p.CreateCheckoutSession(context.Background(), &payment.CheckoutSessionParams{
		ProductName: "Investment in Artist #42",
		UnitAmount:  100,
		Currency:    "xyz",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrGateway)
	assert.Contains(t, err.Error(), "Invalid currency: xyz")
}

func TestConstructEvent_CheckoutSessionCompleted(t *testing.T) {
	payload := `{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"created": 1714564800,
		"data": {"object": {
			"id": "cs_test_abc",
			"object": "checkout.session",
			"amount_total": 2500,
			"currency": "usd",
			"payment_status": "paid",
			"created": 1714564700,
			"customer_details": {"email": "fan@example.com"},
			"metadata": {"artistId": "42", "userId": "user-1", "userEmail": "fan@example.com"}
		}}
	}`

	p := newTestProvider(t, "")
	event, err := p.ConstructEvent([]byte(payload), sign(payload))
	require.NoError(t, err)

	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, payment.EventTypeCheckoutSessionCompleted, event.Type)
	assert.True(t, event.Settles())
	require.NotNil(t, event.Session)
	assert.Equal(t, "cs_test_abc", event.Session.ID)
	assert.Equal(t, int64(2500), event.Session.AmountTotal)
	assert.Equal(t, "paid", event.Session.PaymentStatus)
	assert.Equal(t, int64(1714564700), event.Session.Created)
	assert.Equal(t, "fan@example.com", event.Session.CustomerEmail)
	assert.Equal(t, "42", event.Session.Metadata["artistId"])
}

func TestConstructEvent_OtherEventHasNoSession(t *testing.T) {
	payload := `{"id":"evt_2","object":"event","type":"payment_intent.created","created":1714564800,"data":{"object":{"id":"pi_1","object":"payment_intent"}}}`

	p := newTestProvider(t, "")
	event, err := p.ConstructEvent([]byte(payload), sign(payload))
	require.NoError(t, err)
	assert.False(t, event.Settles())
	assert.Nil(t, event.Session)
}

func TestConstructEvent_InvalidSignature(t *testing.T) {
	payload := `{"id":"evt_3","object":"event","type":"checkout.session.completed"}`

	p := newTestProvider(t, "")

	_, err := p.ConstructEvent([]byte(payload), "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)

	signature := sign(payload)
	_, err = p.ConstructEvent([]byte(payload+" "), signature)
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)

	_, err = p.ConstructEvent([]byte(payload), "")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}
