// Package app wires services and event subscribers into one application.
package app

import (
	"time"

	"github.com/spotavibe/spotavibe/pkg/domain/events"
	"github.com/spotavibe/spotavibe/pkg/handler/investment"
)

func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil {
		return
	}
	logger := a.Deps.Logger
	tracker := investment.NewTracker(a.Deps.Cache, 24*time.Hour, logger)

	bus.Register(
		events.EventTypeInvestmentSettled,
		investment.HandleSettledInvalidate(a.PortfolioService, logger),
	)
	bus.Register(
		events.EventTypeInvestmentSettled,
		investment.WithIdempotency(
			investment.HandleSettledAudit(logger),
			tracker,
			investment.SettledEventKey,
			"investment.HandleSettledAudit",
			logger,
		),
	)
}
