package artist

import (
	"context"

	"github.com/spotavibe/spotavibe/pkg/domain/investment"
)

// Repository resolves artist profiles. Profiles are written by the sign-up
// flow, so the checkout service only reads them.
type Repository interface {
	// GetByUserID returns the artist profile owned by a user, or
	// repository.ErrNotFound.
	GetByUserID(ctx context.Context, userID string) (*investment.Artist, error)
}
