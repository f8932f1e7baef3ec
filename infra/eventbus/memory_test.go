package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spotavibe/spotavibe/pkg/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledFixture() *events.InvestmentSettled {
	return &events.InvestmentSettled{
		StripeSessionID: "cs_test_1",
		UserID:          "user-1",
		ArtistID:        "42",
		Email:           "fan@example.com",
		Cost:            decimal.RequireFromString("25.00"),
		SettledAt:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryEventBus_EmitDispatchesToRegisteredHandlers(t *testing.T) {
	bus := NewWithMemory(slog.Default(), RecordEvents())

	var received []events.Event
	bus.Register(events.EventTypeInvestmentSettled, func(ctx context.Context, e events.Event) error {
		received = append(received, e)
		return nil
	})

	evt := settledFixture()
	require.NoError(t, bus.Emit(context.Background(), evt))

	require.Len(t, received, 1)
	assert.Same(t, evt, received[0])
	assert.Len(t, bus.Published(), 1)
}

func TestMemoryEventBus_HandlerFailureDoesNotStopOthers(t *testing.T) {
	bus := NewWithMemory(slog.Default(), RecordEvents())

	calls := 0
	bus.Register(events.EventTypeInvestmentSettled, func(ctx context.Context, e events.Event) error {
		calls++
		return errors.New("boom")
	})
	bus.Register(events.EventTypeInvestmentSettled, func(ctx context.Context, e events.Event) error {
		calls++
		panic("handler panic")
	})
	bus.Register(events.EventTypeInvestmentSettled, func(ctx context.Context, e events.Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), settledFixture()))
	assert.Equal(t, 3, calls)
}

func TestMemoryEventBus_ClearPublished(t *testing.T) {
	bus := NewWithMemory(nil, RecordEvents())
	require.NoError(t, bus.Emit(context.Background(), settledFixture()))
	require.Len(t, bus.Published(), 1)

	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}

func TestMemoryEventBus_DoesNotRecordByDefault(t *testing.T) {
	bus := NewWithMemory(nil)
	delivered := 0
	bus.Register(events.EventTypeInvestmentSettled, func(context.Context, events.Event) error {
		delivered++
		return nil
	})

	for range 3 {
		require.NoError(t, bus.Emit(context.Background(), settledFixture()))
	}
	assert.Equal(t, 3, delivered)
	assert.Empty(t, bus.Published())
}
