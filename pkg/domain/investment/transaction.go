package investment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitsPerSettlement is the number of units recorded for every completed
// checkout session, whatever the amount paid.
const UnitsPerSettlement = 1

// Transaction is a committed investment. It is created once per completed
// checkout session and never modified afterwards.
type Transaction struct {
	ID              uuid.UUID
	UserID          string
	ArtistID        ArtistID
	AmountBought    int
	Cost            decimal.Decimal
	StripeSessionID string
	Timestamp       time.Time
	Email           string
	CreatedAt       time.Time
}

// NewTransaction builds the transaction for a settled checkout session.
// amountTotal is the session total in minor units.
func NewTransaction(
	sessionID, userID, email string,
	artistID ArtistID,
	amountTotal int64,
	settledAt time.Time,
) (*Transaction, error) {
	if strings.TrimSpace(sessionID) == "" ||
		strings.TrimSpace(userID) == "" ||
		strings.TrimSpace(artistID.String()) == "" {
		return nil, ErrIncompleteSettlement
	}
	if amountTotal < 0 {
		return nil, ErrInvalidAmount
	}
	return &Transaction{
		ID:              uuid.New(),
		UserID:          userID,
		ArtistID:        artistID,
		AmountBought:    UnitsPerSettlement,
		Cost:            FromMinorUnits(amountTotal),
		StripeSessionID: sessionID,
		Timestamp:       settledAt.UTC(),
		Email:           email,
	}, nil
}
