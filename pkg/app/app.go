package app

import (
	"log/slog"

	"github.com/spotavibe/spotavibe/pkg/cache"
	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/pkg/eventbus"
	"github.com/spotavibe/spotavibe/pkg/provider/payment"
	"github.com/spotavibe/spotavibe/pkg/repository/artist"
	"github.com/spotavibe/spotavibe/pkg/repository/transaction"
	"github.com/spotavibe/spotavibe/pkg/service/auth"
	"github.com/spotavibe/spotavibe/pkg/service/checkout"
	"github.com/spotavibe/spotavibe/pkg/service/portfolio"
	"github.com/spotavibe/spotavibe/pkg/service/settlement"
)

// Deps holds the long-lived clients built once at startup.
type Deps struct {
	TransactionRepo transaction.Repository
	ArtistRepo      artist.Repository
	PaymentGateway  payment.Gateway
	Cache           cache.Store
	EventBus        eventbus.Bus
	// AuthStrategy overrides the strategy selected by Auth.Strategy.
	AuthStrategy auth.Strategy
	Logger       *slog.Logger
}

type App struct {
	Deps              *Deps
	Config            *config.App
	AuthService       *auth.Service
	CheckoutService   *checkout.Service
	SettlementService *settlement.Service
	PortfolioService  *portfolio.Service
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	app := &App{
		Deps:   deps,
		Config: cfg,
	}

	authMap := map[string]func() *auth.Service{
		"supabase": func() *auth.Service {
			return auth.NewWithSupabase(cfg.Supabase, deps.Cache, cfg.Auth.CacheTTL, deps.Logger)
		},
		"jwt": func() *auth.Service {
			return auth.NewWithJWT(cfg.Supabase, deps.Cache, cfg.Auth.CacheTTL, deps.Logger)
		},
	}
	switch factory, ok := authMap[cfg.Auth.Strategy]; {
	case deps.AuthStrategy != nil:
		app.AuthService = auth.New(deps.AuthStrategy, deps.Cache, cfg.Auth.CacheTTL, deps.Logger)
	case ok:
		app.AuthService = factory()
	default:
		deps.Logger.Warn("Unknown auth strategy, falling back to supabase", "strategy", cfg.Auth.Strategy)
		app.AuthService = authMap["supabase"]()
	}

	app.CheckoutService = checkout.New(deps.PaymentGateway, cfg.Stripe, deps.Logger)
	app.SettlementService = settlement.New(deps.PaymentGateway, deps.TransactionRepo, deps.EventBus, deps.Logger)
	app.PortfolioService = portfolio.New(deps.TransactionRepo, deps.ArtistRepo, deps.Cache, cfg.Portfolio.CacheTTL, deps.Logger)
	app.setupEventBus()
	return app
}
