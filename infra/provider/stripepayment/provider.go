package stripepayment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/pkg/provider/payment"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripePaymentProvider implements payment.Gateway using the Stripe API.
type StripePaymentProvider struct {
	client *stripe.Client
	cfg    *config.Stripe
	logger *slog.Logger
}

// New creates a new StripePaymentProvider. Requests are never retried by
// the client; a failed call surfaces to the caller immediately.
func New(cfg *config.Stripe, logger *slog.Logger) *StripePaymentProvider {
	if logger == nil {
		logger = slog.Default()
	}
	backendCfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.BackendURL != "" {
		backendCfg.URL = stripe.String(cfg.BackendURL)
	}
	client := stripe.NewClient(
		cfg.SecretKey,
		stripe.WithBackends(stripe.NewBackendsWithConfig(backendCfg)),
	)
	return &StripePaymentProvider{
		client: client,
		cfg:    cfg,
		logger: logger.With("provider", "stripe"),
	}
}

// CreateCheckoutSession creates a hosted Checkout Session with a single
// line item.
func (s *StripePaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	p *payment.CheckoutSessionParams,
) (*payment.CheckoutSession, error) {
	log := s.logger.With(
		"handler", "stripe.CreateCheckoutSession",
		"user_id", p.Metadata[payment.MetadataUserID],
		"artist_id", p.Metadata[payment.MetadataArtistID],
		"unit_amount", p.UnitAmount,
		"currency", p.Currency,
	)

	metadata := maps.Clone(p.Metadata)
	params := &stripe.CheckoutSessionCreateParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
		Metadata:           metadata,
		PaymentIntentData: &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			Metadata: metadata,
		},
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency: stripe.String(p.Currency),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(p.ProductName),
				},
				UnitAmount: stripe.Int64(p.UnitAmount),
			},
			Quantity: stripe.Int64(1),
		}},
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}

	session, err := s.client.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		log.Error("failed to create checkout session", "error", err)
		return nil, fmt.Errorf("%w: %s", payment.ErrGateway, gatewayMessage(err))
	}

	log.Info("✅ Created checkout session", "session_id", session.ID)
	return &payment.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// ConstructEvent verifies the Stripe-Signature header over the raw payload
// and decodes checkout session events.
func (s *StripePaymentProvider) ConstructEvent(payload []byte, signature string) (*payment.Event, error) {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		s.cfg.WebhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: s.cfg.IgnoreAPIVersionMismatch,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", payment.ErrInvalidSignature, err.Error())
	}

	out := &payment.Event{
		ID:      event.ID,
		Type:    payment.EventType(event.Type),
		Created: event.Created,
	}
	if !out.Settles() {
		return out, nil
	}
	if event.Data == nil || event.Data.Raw == nil {
		return nil, fmt.Errorf("%w: stripe event %s: event data is nil", payment.ErrInvalidPayload, event.ID)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: stripe event %s: parsing checkout session: %w", payment.ErrInvalidPayload, event.ID, err)
	}
	out.Session = toCompletedSession(&session)
	return out, nil
}

func toCompletedSession(session *stripe.CheckoutSession) *payment.CompletedSession {
	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}
	return &payment.CompletedSession{
		ID:            session.ID,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		PaymentStatus: string(session.PaymentStatus),
		CustomerEmail: email,
		Created:       session.Created,
		Metadata:      session.Metadata,
	}
}

// gatewayMessage returns the message Stripe attached to the error, if any.
func gatewayMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}

var _ payment.Gateway = (*StripePaymentProvider)(nil)
