package initializer

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	infra_eventbus "github.com/spotavibe/spotavibe/infra/eventbus"
	"github.com/spotavibe/spotavibe/infra/cache"
	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitEventBus_DefaultsToMemory(t *testing.T) {
	for _, driver := range []string{"", "memory", " Memory "} {
		cfg := &config.App{EventBus: &config.EventBus{Driver: driver}}
		bus, err := initEventBus(cfg, discardLogger())
		require.NoError(t, err)
		require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
	}
}

func TestInitEventBus_NilConfigUsesMemory(t *testing.T) {
	bus, err := initEventBus(&config.App{}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_KafkaRequiresBrokers(t *testing.T) {
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "kafka", Kafka: &config.Kafka{}},
	}
	_, err := initEventBus(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitEventBus_KafkaConnectionErrorFallsBackToMemory(t *testing.T) {
	cfg := &config.App{
		EventBus: &config.EventBus{
			Driver: "kafka",
			Kafka:  &config.Kafka{Brokers: "127.0.0.1:1", TopicPrefix: "spotavibe.events"},
		},
	}
	bus, err := initEventBus(cfg, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_UnsupportedDriverErrors(t *testing.T) {
	cfg := &config.App{EventBus: &config.EventBus{Driver: "nope"}}
	_, err := initEventBus(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitCache_FallsBackToMemory(t *testing.T) {
	cfg := &config.App{Redis: &config.Redis{URL: "not a url"}}
	store := initCache(t.Context(), cfg, discardLogger())
	require.IsType(t, &cache.MemoryCache{}, store)
}

func TestInitSentry_DisabledWithoutDSN(t *testing.T) {
	assert.Nil(t, initSentry(&config.App{Sentry: &config.Sentry{}}, discardLogger()))
	assert.Nil(t, initSentry(&config.App{}, discardLogger()))
}

func TestNewLogger_JSONFormat(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Log{Format: "json", Prefix: "[spotavibe]"})
	logger.Info("hello", "session_id", "cs_1")
	assert.Contains(t, buf.String(), `"session_id":"cs_1"`)
	assert.Contains(t, buf.String(), "hello")
}
