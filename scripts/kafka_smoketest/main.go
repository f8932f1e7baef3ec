// Command kafka_smoketest publishes an InvestmentSettled event through the
// Kafka event bus and waits for the subscriber to receive it.
//
// Usage: BROKERS=localhost:9092 go run ./scripts/kafka_smoketest
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	infra_eventbus "github.com/spotavibe/spotavibe/infra/eventbus"
	"github.com/spotavibe/spotavibe/pkg/domain/events"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
)

// RunSmokeTest round-trips one event through the broker.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9092"
	}
	groupID := strings.TrimSpace(os.Getenv("GROUP_ID"))
	if groupID == "" {
		groupID = "spotavibe-smoketest-" + uuid.NewString()[:8]
	}

	bus, err := infra_eventbus.NewWithKafka(logger, infra_eventbus.KafkaConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		TopicPrefix: "spotavibe.smoketest",
	})
	if err != nil {
		logger.Error("connect failed", "error", err)
		return err
	}
	defer func() { _ = bus.Close() }()

	tx, err := investment.NewTransaction(
		"cs_smoke_"+uuid.NewString(), "smoke-user", "smoke@example.com", "smoke-artist", 100, time.Now(),
	)
	if err != nil {
		return err
	}
	sent := events.NewInvestmentSettled(tx)

	received := make(chan *events.InvestmentSettled, 1)
	bus.Register(events.EventTypeInvestmentSettled, func(_ context.Context, e events.Event) error {
		if s, ok := e.(*events.InvestmentSettled); ok && s.ID == sent.ID {
			received <- s
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Give the consumer group time to join before producing.
	time.Sleep(2 * time.Second)
	if err := bus.Emit(ctx, sent); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "event_id", sent.ID, "session_id", sent.StripeSessionID)

	select {
	case got := <-received:
		logger.Info("consumed", "event_id", got.ID, "cost", got.Cost.StringFixed(2))
	case <-ctx.Done():
		return errors.New("timed out waiting for InvestmentSettled")
	}

	logger.Info("kafka smoke test passed")
	return nil
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
