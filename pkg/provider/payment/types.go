package payment

import (
	"errors"
)

var (
	// ErrInvalidSignature is returned when a notification cannot be verified.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrInvalidPayload is returned when a verified notification cannot be decoded.
	ErrInvalidPayload = errors.New("invalid webhook payload")
	// ErrGateway wraps failures reported by the payment provider.
	ErrGateway = errors.New("payment gateway error")
)

// Metadata keys attached to every checkout session and read back on settlement.
const (
	MetadataArtistID  = "artistId"
	MetadataUserID    = "userId"
	MetadataUserEmail = "userEmail"
)

// EventType is the provider notification type.
type EventType string

const (
	// EventTypeCheckoutSessionCompleted is sent when the buyer finishes checkout.
	EventTypeCheckoutSessionCompleted EventType = "checkout.session.completed"
	// EventTypeCheckoutSessionAsyncPaymentSucceeded is sent when a delayed
	// payment method settles after checkout completed.
	EventTypeCheckoutSessionAsyncPaymentSucceeded EventType = "checkout.session.async_payment_succeeded"
)

// PaymentStatusPaid is the session payment status once funds are captured.
const PaymentStatusPaid = "paid"

// CheckoutSessionParams holds the parameters for CreateCheckoutSession.
type CheckoutSessionParams struct {
	ProductName   string
	UnitAmount    int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the hosted session returned by the provider.
type CheckoutSession struct {
	ID  string
	URL string
}

// CompletedSession carries the fields of a checkout session needed to
// record a transaction.
type CompletedSession struct {
	ID            string
	AmountTotal   int64
	Currency      string
	PaymentStatus string
	CustomerEmail string
	Created       int64
	Metadata      map[string]string
}

// Event is a verified provider notification.
type Event struct {
	ID      string
	Type    EventType
	Created int64
	// Session is set for checkout session events only.
	Session *CompletedSession
}

// Settles reports whether the event type can record a transaction.
func (e *Event) Settles() bool {
	switch e.Type {
	case EventTypeCheckoutSessionCompleted, EventTypeCheckoutSessionAsyncPaymentSucceeded:
		return true
	default:
		return false
	}
}
