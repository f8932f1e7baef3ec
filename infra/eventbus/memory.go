package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spotavibe/spotavibe/pkg/domain/events"
	"github.com/spotavibe/spotavibe/pkg/eventbus"
)

// MemoryEventBus runs handlers synchronously inside Emit.
type MemoryEventBus struct {
	logger *slog.Logger
	record bool

	mu       sync.RWMutex
	handlers map[events.EventType][]eventbus.HandlerFunc
	emitted  []events.Event
}

// MemoryOption configures a MemoryEventBus.
type MemoryOption func(*MemoryEventBus)

// RecordEvents keeps every emitted event for Published. Tests only: the
// record grows for the lifetime of the bus.
func RecordEvents() MemoryOption {
	return func(b *MemoryEventBus) { b.record = true }
}

// NewWithMemory returns an empty in-process bus.
func NewWithMemory(logger *slog.Logger, opts ...MemoryOption) *MemoryEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	b := &MemoryEventBus{
		logger:   logger.With("bus", "memory"),
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *MemoryEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

// Emit never fails: handler errors and panics are logged and the remaining
// handlers still run.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	if b.record {
		b.emitted = append(b.emitted, event)
	}
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[events.EventType(event.Type())]...)
	b.mu.Unlock()

	for _, h := range handlers {
		_ = dispatch(ctx, b.logger, event, h)
	}
	return nil
}

// Published returns a snapshot of the events emitted so far. It is always
// empty unless the bus was built with RecordEvents.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Event(nil), b.emitted...)
}

func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	b.emitted = nil
	b.mu.Unlock()
}

func (b *MemoryEventBus) Close() error { return nil }

// dispatch runs one handler, converting a panic into an error. Failures are
// logged here so callers only decide whether to retry.
func dispatch(ctx context.Context, logger *slog.Logger, event events.Event, h eventbus.HandlerFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
			logger.Error("Event handler panicked", "event_type", event.Type(), "panic", r)
		}
	}()
	if err = h(ctx, event); err != nil {
		logger.Error("Event handler failed", "event_type", event.Type(), "error", err)
	}
	return err
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)
