// Package investment holds the subscribers for investment lifecycle events.
package investment

import (
	"context"
	"log/slog"

	"github.com/spotavibe/spotavibe/pkg/domain/events"
	"github.com/spotavibe/spotavibe/pkg/eventbus"
)

// Invalidator drops cached read models for an artist.
type Invalidator interface {
	Invalidate(ctx context.Context, artist string) error
}

// HandleSettledInvalidate evicts the artist dashboard cache after a new
// investment is recorded.
func HandleSettledInvalidate(inv Invalidator, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With("handler", "investment.HandleSettledInvalidate", "event_type", e.Type())
		settled, ok := e.(*events.InvestmentSettled)
		if !ok {
			log.Error("Skipping unexpected event type", "event", e)
			return nil
		}
		if err := inv.Invalidate(ctx, settled.ArtistID); err != nil {
			log.Warn("Failed to invalidate artist cache",
				"artist_id", settled.ArtistID, "error", err)
			return err
		}
		log.Debug("Artist cache invalidated", "artist_id", settled.ArtistID)
		return nil
	}
}

// HandleSettledAudit writes one audit line per recorded investment.
func HandleSettledAudit(logger *slog.Logger) eventbus.HandlerFunc {
	return func(_ context.Context, e events.Event) error {
		settled, ok := e.(*events.InvestmentSettled)
		if !ok {
			return nil
		}
		logger.Info("💸 Investment settled",
			"handler", "investment.HandleSettledAudit",
			"event_id", settled.ID,
			"transaction_id", settled.TransactionID,
			"session_id", settled.StripeSessionID,
			"user_id", settled.UserID,
			"artist_id", settled.ArtistID,
			"cost", settled.Cost.StringFixed(2),
			"settled_at", settled.SettledAt,
		)
		return nil
	}
}
