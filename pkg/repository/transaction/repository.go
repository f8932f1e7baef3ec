package transaction

import (
	"context"

	"github.com/spotavibe/spotavibe/pkg/domain/investment"
)

// Repository defines the persistence operations for investment transactions.
// Rows are immutable: there is no update or delete path.
type Repository interface {
	// CreateIfAbsent inserts the transaction unless one already exists for
	// its Stripe session id. It reports whether a row was created.
	CreateIfAbsent(ctx context.Context, tx *investment.Transaction) (bool, error)

	// GetBySessionID returns the transaction recorded for a checkout session.
	GetBySessionID(ctx context.Context, sessionID string) (*investment.Transaction, error)

	// ListByUser lists a user's transactions newest first, optionally
	// restricted to one artist.
	ListByUser(ctx context.Context, userID string, artistID string) ([]*investment.Transaction, error)

	// ListByArtist lists all transactions for an artist newest first.
	ListByArtist(ctx context.Context, artistID string) ([]*investment.Transaction, error)
}
