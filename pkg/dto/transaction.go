package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
)

// TransactionRead is the read model returned by the dashboard endpoints.
type TransactionRead struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"user_id"`
	ArtistName      string          `json:"artist_name"`
	AmountBought    int             `json:"amount_bought"`
	Cost            decimal.Decimal `json:"cost"`
	StripeSessionID string          `json:"stripe_session_id"`
	Timestamp       time.Time       `json:"timestamp"`
	Email           string          `json:"email,omitempty"`
}

// InvestorPortfolio is one user's holdings.
type InvestorPortfolio struct {
	Transactions  []TransactionRead `json:"transactions"`
	TotalInvested decimal.Decimal   `json:"total_invested"`
	TotalShares   int               `json:"total_shares"`
	Artists       []string          `json:"artists"`
}

// InvestorSummary aggregates an artist's transactions for one investor email.
type InvestorSummary struct {
	Email         string          `json:"email"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	TotalShares   int             `json:"total_shares"`
	Transactions  int             `json:"transactions"`
}

// ArtistInvestors is the artist dashboard read model.
type ArtistInvestors struct {
	Artist        string            `json:"artist"`
	TotalInvested decimal.Decimal   `json:"total_invested"`
	TotalShares   int               `json:"total_shares"`
	Investors     []InvestorSummary `json:"investors"`
}

// ToTransactionRead maps a domain transaction to its read model.
func ToTransactionRead(tx *investment.Transaction) TransactionRead {
	return TransactionRead{
		ID:              tx.ID,
		UserID:          tx.UserID,
		ArtistName:      tx.ArtistID.String(),
		AmountBought:    tx.AmountBought,
		Cost:            tx.Cost,
		StripeSessionID: tx.StripeSessionID,
		Timestamp:       tx.Timestamp,
		Email:           tx.Email,
	}
}
