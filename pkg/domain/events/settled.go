package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
)

// InvestmentSettled is emitted once a completed checkout session has been
// recorded as a transaction. Duplicate deliveries do not emit it again.
type InvestmentSettled struct {
	ID              uuid.UUID       `json:"id"`
	TransactionID   uuid.UUID       `json:"transaction_id"`
	StripeSessionID string          `json:"stripe_session_id"`
	UserID          string          `json:"user_id"`
	ArtistID        string          `json:"artist_id"`
	Email           string          `json:"email"`
	Cost            decimal.Decimal `json:"cost"`
	SettledAt       time.Time       `json:"settled_at"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

// Type implements Event.
func (e *InvestmentSettled) Type() string {
	return EventTypeInvestmentSettled.String()
}

// PartitionKey keeps settlements for one artist in order.
func (e *InvestmentSettled) PartitionKey() string {
	return e.ArtistID
}

// NewInvestmentSettled builds the event for a persisted transaction.
func NewInvestmentSettled(tx *investment.Transaction) *InvestmentSettled {
	return &InvestmentSettled{
		ID:              uuid.New(),
		TransactionID:   tx.ID,
		StripeSessionID: tx.StripeSessionID,
		UserID:          tx.UserID,
		ArtistID:        tx.ArtistID.String(),
		Email:           tx.Email,
		Cost:            tx.Cost,
		SettledAt:       tx.Timestamp,
		OccurredAt:      time.Now().UTC(),
	}
}
