package initializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spotavibe/spotavibe/infra"
	infra_cache "github.com/spotavibe/spotavibe/infra/cache"
	infra_eventbus "github.com/spotavibe/spotavibe/infra/eventbus"
	"github.com/spotavibe/spotavibe/infra/provider/stripepayment"
	artistrepo "github.com/spotavibe/spotavibe/infra/repository/artist"
	txrepo "github.com/spotavibe/spotavibe/infra/repository/transaction"
	"github.com/spotavibe/spotavibe/pkg/app"
	"github.com/spotavibe/spotavibe/pkg/cache"
	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/pkg/eventbus"
)

// Cleanup releases the resources opened by InitializeDependencies.
type Cleanup func()

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	cleanup Cleanup,
	err error,
) {
	logger := setupLogger(cfg.Log)
	var closers []func()
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	if flush := initSentry(cfg, logger); flush != nil {
		closers = append(closers, flush)
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	closers = append(closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if cfg.DB.AutoMigrate {
		if err = infra.MigrateUp(db, logger); err != nil {
			return nil, nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store := initCache(ctx, cfg, logger)
	if c, ok := store.(io.Closer); ok {
		closers = append(closers, func() { _ = c.Close() })
	}

	bus, err := initEventBus(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := bus.(io.Closer); ok {
		closers = append(closers, func() { _ = c.Close() })
	}

	if cfg.Stripe.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is not set; checkout will fail")
	}
	if cfg.Stripe.WebhookSecret == "" {
		logger.Warn("STRIPE_WEBHOOK_SECRET is not set; every webhook will be rejected")
	}

	deps = &app.Deps{
		TransactionRepo: txrepo.New(db),
		ArtistRepo:      artistrepo.New(db),
		PaymentGateway:  stripepayment.New(cfg.Stripe, logger),
		Cache:           store,
		EventBus:        bus,
		Logger:          logger,
	}
	return deps, cleanup, nil
}

// initCache prefers Redis and degrades to the in-process cache when Redis
// is unreachable.
func initCache(ctx context.Context, cfg *config.App, logger *slog.Logger) cache.Store {
	store, err := infra.NewCache(ctx, logger, cfg.Redis)
	if err != nil {
		logger.Warn("Falling back to in-memory cache", "error", err)
		return infra_cache.NewMemoryCache()
	}
	return store
}

func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	driver := ""
	if cfg.EventBus != nil {
		driver = strings.ToLower(strings.TrimSpace(cfg.EventBus.Driver))
	}
	switch driver {
	case "", "memory":
		logger.Info("Using in-memory event bus")
		return infra_eventbus.NewWithMemory(logger), nil
	case "kafka":
		kcfg := cfg.EventBus.Kafka
		if kcfg == nil || strings.TrimSpace(kcfg.Brokers) == "" {
			return nil, errors.New("EVENT_BUS_KAFKA_BROKERS is required when EVENT_BUS_DRIVER=kafka")
		}
		bus, err := infra_eventbus.NewWithKafka(logger, infra_eventbus.KafkaConfig{
			Brokers:     kcfg.Brokers,
			GroupID:     kcfg.GroupID,
			TopicPrefix: kcfg.TopicPrefix,
		})
		if err != nil {
			logger.Warn("Kafka unavailable, falling back to in-memory event bus", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		logger.Info("Using Kafka event bus", "topic_prefix", kcfg.TopicPrefix)
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", driver)
	}
}

// initSentry configures error reporting and returns a flush func, or nil
// when no DSN is configured.
func initSentry(cfg *config.App, logger *slog.Logger) func() {
	if cfg.Sentry == nil || cfg.Sentry.DSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Env,
		EnableTracing:    cfg.Sentry.TracesSampleRate > 0,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
	})
	if err != nil {
		logger.Warn("Sentry initialization failed", "error", err)
		return nil
	}
	logger.Info("Sentry error reporting enabled", "env", cfg.Env)
	return func() { sentry.Flush(2 * time.Second) }
}
