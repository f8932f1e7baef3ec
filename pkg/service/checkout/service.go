package checkout

import (
	"context"
	"log/slog"

	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
	"github.com/spotavibe/spotavibe/pkg/domain/user"
	"github.com/spotavibe/spotavibe/pkg/provider/payment"
)

// Service starts hosted checkout sessions for investments. It records
// nothing locally; a transaction exists only once settlement confirms the
// payment.
type Service struct {
	gateway payment.Gateway
	cfg     *config.Stripe
	logger  *slog.Logger
}

// New creates a new checkout service.
func New(gateway payment.Gateway, cfg *config.Stripe, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gateway: gateway, cfg: cfg, logger: logger}
}

// CreateSession validates the purchase and asks the gateway for a hosted
// checkout page. The returned session carries the redirect URL.
func (s *Service) CreateSession(
	ctx context.Context,
	identity *user.Identity,
	req investment.PurchaseRequest,
) (*payment.CheckoutSession, error) {
	if identity == nil || identity.ID == "" {
		return nil, user.ErrUserUnauthorized
	}
	log := s.logger.With(
		"handler", "checkout.CreateSession",
		"user_id", identity.ID,
		"artist_id", req.ArtistID,
		"amount", req.Amount.String(),
	)

	if err := req.Validate(); err != nil {
		log.Warn("Rejected purchase request", "error", err)
		return nil, err
	}

	params := &payment.CheckoutSessionParams{
		ProductName:   req.ProductName(),
		UnitAmount:    req.UnitAmount(),
		Currency:      s.cfg.Currency,
		CustomerEmail: identity.Email,
		Metadata: map[string]string{
			payment.MetadataArtistID:  req.ArtistID.String(),
			payment.MetadataUserID:    identity.ID,
			payment.MetadataUserEmail: identity.Email,
		},
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		log.Error("Checkout session creation failed", "error", err)
		return nil, err
	}
	log.Info("🛒 Checkout session created", "session_id", session.ID)
	return session, nil
}
