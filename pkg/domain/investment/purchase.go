package investment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const maxArtistIDLength = 128

// ArtistID identifies the artist an investment targets. Clients send it
// either as a JSON string or a JSON number.
type ArtistID string

// UnmarshalJSON accepts both string and numeric identifiers.
func (a *ArtistID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ArtistID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidArtist
	}
	*a = ArtistID(n.String())
	return nil
}

// String implements fmt.Stringer.
func (a ArtistID) String() string { return string(a) }

// PurchaseRequest is an investor's intent to invest Amount (major units)
// in an artist.
type PurchaseRequest struct {
	ArtistID ArtistID
	Amount   decimal.Decimal
}

// Validate checks the request before any gateway call is made.
func (r PurchaseRequest) Validate() error {
	artist := strings.TrimSpace(r.ArtistID.String())
	if artist == "" || len(artist) > maxArtistIDLength {
		return ErrInvalidArtist
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if r.Amount.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	if r.UnitAmount() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// UnitAmount is the line item price in minor units.
func (r PurchaseRequest) UnitAmount() int64 {
	return ToMinorUnits(r.Amount)
}

// ProductName is the label shown on the hosted checkout page.
func (r PurchaseRequest) ProductName() string {
	return fmt.Sprintf("Investment in Artist #%s", strings.TrimSpace(r.ArtistID.String()))
}
