package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spotavibe/spotavibe/pkg/domain/events"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
	"github.com/spotavibe/spotavibe/pkg/eventbus"
	"github.com/spotavibe/spotavibe/pkg/provider/payment"
	"github.com/spotavibe/spotavibe/pkg/repository/transaction"
	"golang.org/x/sync/singleflight"
)

// ErrPersistence marks store failures. The webhook answers 500 so the
// gateway redelivers the event.
var ErrPersistence = errors.New("failed to record transaction")

// Outcome describes how a verified event was resolved.
type Outcome string

const (
	// OutcomeRecorded means a new transaction row was created.
	OutcomeRecorded Outcome = "recorded"
	// OutcomeDuplicate means the session had already been recorded.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeIgnored means the event does not settle a payment.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeRejected means the event can never be recorded (e.g. missing
	// metadata); it is acknowledged so the gateway stops redelivering.
	OutcomeRejected Outcome = "rejected"
)

// Result is returned for every verified event.
type Result struct {
	Outcome     Outcome
	EventID     string
	EventType   string
	SessionID   string
	Transaction *investment.Transaction
}

// Service turns verified checkout notifications into transactions.
type Service struct {
	gateway  payment.Gateway
	repo     transaction.Repository
	bus      eventbus.Bus
	inflight singleflight.Group
	logger   *slog.Logger
}

// New creates a settlement service. bus may be nil.
func New(
	gateway payment.Gateway,
	repo transaction.Repository,
	bus eventbus.Bus,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gateway: gateway, repo: repo, bus: bus, logger: logger}
}

// HandleEvent verifies and processes one webhook delivery. payload must be
// the raw request body.
func (s *Service) HandleEvent(
	ctx context.Context,
	payload []byte,
	signature string,
) (*Result, error) {
	log := s.logger.With("handler", "settlement.HandleEvent")

	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", payment.ErrInvalidSignature)
	}
	if signature == "" {
		return nil, fmt.Errorf("%w: missing Stripe-Signature header", payment.ErrInvalidSignature)
	}

	event, err := s.gateway.ConstructEvent(payload, signature)
	if err != nil {
		log.Warn("Webhook verification failed", "error", err)
		return nil, err
	}

	result := &Result{EventID: event.ID, EventType: string(event.Type)}
	log = log.With("event_id", event.ID, "event_type", event.Type)

	if !event.Settles() {
		log.Debug("Ignoring event type")
		result.Outcome = OutcomeIgnored
		return result, nil
	}

	session := event.Session
	if session == nil {
		log.Error("Settling event without checkout session")
		result.Outcome = OutcomeRejected
		return result, nil
	}
	result.SessionID = session.ID
	log = log.With("session_id", session.ID)

	if session.PaymentStatus != payment.PaymentStatusPaid {
		log.Info("Checkout completed without captured payment; waiting for async settlement",
			"payment_status", session.PaymentStatus)
		result.Outcome = OutcomeIgnored
		return result, nil
	}

	tx, err := transactionFromSession(event, session)
	if err != nil {
		log.Error("Cannot record settlement",
			"error", err,
			"user_id", session.Metadata[payment.MetadataUserID],
			"artist_id", session.Metadata[payment.MetadataArtistID],
		)
		result.Outcome = OutcomeRejected
		return result, nil
	}
	log = log.With("user_id", tx.UserID, "artist_id", tx.ArtistID)

	v, err, _ := s.inflight.Do(session.ID, func() (any, error) {
		return s.record(ctx, log, tx)
	})
	if err != nil {
		log.Error("Failed to record transaction", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	// Callers that joined another delivery's flight share its row. Only the
	// delivery whose own transaction was inserted reports it as recorded.
	row := v.(recorded)
	result.Transaction = row.tx
	if row.created && row.tx == tx {
		log.Info("✅ Investment recorded", "transaction_id", tx.ID, "cost", tx.Cost.StringFixed(2))
		result.Outcome = OutcomeRecorded
		return result, nil
	}
	if row.tx != nil {
		log = log.With("transaction_id", row.tx.ID)
	}
	log.Info("Duplicate delivery for recorded session")
	result.Outcome = OutcomeDuplicate
	return result, nil
}

// recorded is the shared result of one insert attempt. tx is the row as
// stored, or nil when an existing row could not be read back.
type recorded struct {
	tx      *investment.Transaction
	created bool
}

func (s *Service) record(ctx context.Context, log *slog.Logger, tx *investment.Transaction) (recorded, error) {
	created, err := s.repo.CreateIfAbsent(ctx, tx)
	if err != nil {
		return recorded{}, err
	}
	if created {
		s.emitSettled(ctx, log, tx)
		return recorded{tx: tx, created: true}, nil
	}
	existing, err := s.repo.GetBySessionID(ctx, tx.StripeSessionID)
	if err != nil {
		log.Warn("Recorded transaction could not be read back", "error", err)
		return recorded{}, nil
	}
	return recorded{tx: existing}, nil
}

func (s *Service) emitSettled(ctx context.Context, log *slog.Logger, tx *investment.Transaction) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, events.NewInvestmentSettled(tx)); err != nil {
		log.Error("Failed to emit InvestmentSettled", "error", err)
	}
}

func transactionFromSession(event *payment.Event, session *payment.CompletedSession) (*investment.Transaction, error) {
	created := session.Created
	if created == 0 {
		created = event.Created
	}
	email := session.Metadata[payment.MetadataUserEmail]
	if email == "" {
		email = session.CustomerEmail
	}
	return investment.NewTransaction(
		session.ID,
		session.Metadata[payment.MetadataUserID],
		email,
		investment.ArtistID(session.Metadata[payment.MetadataArtistID]),
		session.AmountTotal,
		time.Unix(created, 0),
	)
}
