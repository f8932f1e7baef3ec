package investment

import "errors"

var (
	// ErrInvalidArtist is returned when a purchase does not name an artist.
	ErrInvalidArtist = errors.New("missing or invalid artistId")
	// ErrInvalidAmount is returned when a purchase amount is missing, not
	// numeric, or not positive.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrAmountTooLarge is returned when a purchase amount exceeds MaxAmount.
	ErrAmountTooLarge = errors.New("amount exceeds the maximum allowed investment")
	// ErrIncompleteSettlement is returned when a completed payment lacks the
	// metadata needed to attribute it to an investor and an artist.
	ErrIncompleteSettlement = errors.New("settlement is missing investor or artist metadata")
)

// ErrNotAnArtist is returned when the caller has no artist profile.
var ErrNotAnArtist = errors.New("no artist profile for this account")
