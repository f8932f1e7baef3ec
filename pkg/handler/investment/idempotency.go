package investment

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spotavibe/spotavibe/pkg/cache"
	"github.com/spotavibe/spotavibe/pkg/domain/events"
	"github.com/spotavibe/spotavibe/pkg/eventbus"
	"golang.org/x/sync/singleflight"
)

// KeyExtractor returns the deduplication key for an event. An empty key
// disables the check for that event.
type KeyExtractor func(events.Event) string

// Tracker remembers which keys were handled successfully. Brokers deliver
// at least once, so subscribers wrap side effects with it. Markers are
// written to the shared store when one is configured, so instances in the
// same consumer group agree on what was handled.
type Tracker struct {
	store    cache.Store
	ttl      time.Duration
	local    sync.Map // key -> expiry time.Time
	inflight singleflight.Group
	logger   *slog.Logger
	now      func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// NewTracker creates a tracker. A nil store keeps markers in memory only.
// Markers are forgotten after ttl in both places.
func NewTracker(store cache.Store, ttl time.Duration, logger *slog.Logger) *Tracker {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: store, ttl: ttl, logger: logger, now: time.Now}
}

// Seen reports whether key was handled. Store errors count as not seen so
// the handler runs rather than being skipped.
func (t *Tracker) Seen(ctx context.Context, key string) bool {
	if t.seenLocally(key) {
		return true
	}
	if t.store == nil {
		return false
	}
	_, ok, err := t.store.Get(ctx, markerKey(key))
	if err != nil {
		t.logger.Warn("Idempotency lookup failed", "key", key, "error", err)
		return false
	}
	if ok {
		t.remember(key)
	}
	return ok
}

func (t *Tracker) seenLocally(key string) bool {
	v, ok := t.local.Load(key)
	if !ok {
		return false
	}
	if t.now().After(v.(time.Time)) {
		t.local.CompareAndDelete(key, v)
		return false
	}
	return true
}

func (t *Tracker) remember(key string) {
	t.local.Store(key, t.now().Add(t.ttl))
	t.sweep()
}

// sweep drops expired markers at most once per ttl.
func (t *Tracker) sweep() {
	now := t.now()
	t.sweepMu.Lock()
	if now.Sub(t.lastSweep) < t.ttl {
		t.sweepMu.Unlock()
		return
	}
	t.lastSweep = now
	t.sweepMu.Unlock()

	t.local.Range(func(k, v any) bool {
		if now.After(v.(time.Time)) {
			t.local.CompareAndDelete(k, v)
		}
		return true
	})
}

func (t *Tracker) markDone(ctx context.Context, key string) {
	t.remember(key)
	if t.store == nil {
		return
	}
	if err := t.store.Set(ctx, markerKey(key), []byte("1"), t.ttl); err != nil {
		t.logger.Warn("Idempotency marker write failed", "key", key, "error", err)
	}
}

func markerKey(key string) string {
	return "events:handled:" + key
}

// WithIdempotency runs handler at most once per key. Failed attempts are not
// recorded so a redelivery retries them.
func WithIdempotency(
	handler eventbus.HandlerFunc,
	tracker *Tracker,
	keyOf KeyExtractor,
	name string,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, e events.Event) error {
		key := keyOf(e)
		if key == "" {
			return handler(ctx, e)
		}
		if tracker.Seen(ctx, key) {
			logger.Debug("🔁 Event already handled",
				"handler", name, "event_type", e.Type(), "key", key)
			return nil
		}
		_, err, _ := tracker.inflight.Do(key, func() (any, error) {
			if tracker.Seen(ctx, key) {
				return nil, nil
			}
			if err := handler(ctx, e); err != nil {
				return nil, err
			}
			tracker.markDone(ctx, key)
			return nil, nil
		})
		return err
	}
}

// SettledEventKey keys InvestmentSettled events by event id.
func SettledEventKey(e events.Event) string {
	if s, ok := e.(*events.InvestmentSettled); ok {
		return s.ID.String()
	}
	return ""
}
