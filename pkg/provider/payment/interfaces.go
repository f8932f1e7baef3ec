package payment

import (
	"context"
)

// Gateway is the contract for the external payment provider that hosts
// checkout pages and signs settlement notifications.
type Gateway interface {
	// CreateCheckoutSession creates a hosted checkout session and returns its
	// id and redirect URL.
	CreateCheckoutSession(
		ctx context.Context,
		params *CheckoutSessionParams,
	) (*CheckoutSession, error)

	// ConstructEvent verifies the signature over the raw payload and decodes
	// the notification.
	ConstructEvent(payload []byte, signature string) (*Event, error)
}
