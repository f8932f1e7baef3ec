// Package handler exposes the API as a single serverless function.
package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/spotavibe/spotavibe/docs"
	"github.com/spotavibe/spotavibe/infra/initializer"
	"github.com/spotavibe/spotavibe/pkg/app"
	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/webapi"
)

var (
	once     sync.Once
	built    http.HandlerFunc
	buildErr error
)

// Handler is the main entry point of the application.
// Think of it like the main() method
func Handler(w http.ResponseWriter, r *http.Request) {
	// This is needed to set the proper request path in `*fiber.Ctx`
	r.RequestURI = r.URL.String()

	once.Do(func() { built, buildErr = build() })
	if buildErr != nil {
		slog.Error("Failed to initialize application", "error", buildErr)
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}
	built.ServeHTTP(w, r)
}

// build wires the application once per cold start. The pool and clients
// are reused by every warm invocation.
func build() (http.HandlerFunc, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	deps, _, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return nil, err
	}
	return serve(app.New(deps, cfg)), nil
}

func serve(a *app.App) http.HandlerFunc {
	return adaptor.FiberApp(webapi.SetupApp(a))
}
