// Package webapi provides the HTTP surface of the Spotavibe backend.
// It is organized into sub-packages per concern:
// - checkout: hosted checkout session creation
// - payment: Stripe webhook settlement
// - portfolio: investor and artist dashboards
package webapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/spotavibe/spotavibe/pkg/app"
	checkoutweb "github.com/spotavibe/spotavibe/webapi/checkout"
	"github.com/spotavibe/spotavibe/webapi/common"
	"github.com/spotavibe/spotavibe/webapi/payment"
	portfolioweb "github.com/spotavibe/spotavibe/webapi/portfolio"
)

// SetupApp builds the Fiber application with every route mounted.
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config

	fiberApp := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// The webhook reads the raw body and is exempt from CORS and rate limits.
	payment.Routes(fiberApp, a.SettlementService)

	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Cors.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	fiberApp.Use(limiter.New(limiter.Config{
		Max:          cfg.RateLimit.MaxRequests,
		Expiration:   cfg.RateLimit.Window,
		KeyGenerator: clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorJSON(c, fiber.StatusTooManyRequests, "Rate limit exceeded")
		},
	}))

	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		PersistAuthorization: true,
	}))

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Spotavibe API is running! 🚀")
	})

	checkoutweb.Routes(fiberApp, a.CheckoutService, a.AuthService)
	portfolioweb.Routes(fiberApp, a.PortfolioService, a.AuthService)
	return fiberApp
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return common.ErrorJSON(c, fe.Code, fe.Message)
	}
	common.CaptureError(c, err)
	return common.ErrorJSON(c, fiber.StatusInternalServerError, "Internal Server Error")
}

// clientKey identifies the caller for rate limiting. Behind the hosting
// proxy the first X-Forwarded-For hop is the client.
func clientKey(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := c.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.IP()
}
