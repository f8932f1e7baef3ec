package checkout

import (
	"github.com/shopspring/decimal"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
)

// CreateSessionRequest is the body of POST /create-checkout-session.
// artistId may be a JSON string or number; amount is in major units.
type CreateSessionRequest struct {
	ArtistID investment.ArtistID `json:"artistId" validate:"required"`
	Amount   *decimal.Decimal    `json:"amount" validate:"required"`
}

// CreateSessionResponse carries the hosted checkout page URL.
type CreateSessionResponse struct {
	URL string `json:"url"`
}

// ValidationMessage keeps the error text the frontend already displays.
func (CreateSessionRequest) ValidationMessage(error) string {
	return MissingFieldsMessage
}
