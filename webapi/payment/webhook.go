package payment

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/spotavibe/spotavibe/pkg/service/settlement"
	"github.com/spotavibe/spotavibe/webapi/common"
)

// MaxWebhookBody caps the accepted notification size.
const MaxWebhookBody = 64 << 10

// SignatureHeader carries the gateway signature.
const SignatureHeader = "Stripe-Signature"

// WebhookAck is returned for every event the service accepted.
type WebhookAck struct {
	Received bool `json:"received"`
}

// Routes registers the webhook. It must be mounted before any middleware
// that consumes or rewrites the request body.
func Routes(app *fiber.App, settlementSvc *settlement.Service) {
	app.Post("/webhook", StripeWebhookHandler(settlementSvc))
}

// StripeWebhookHandler verifies and settles Stripe notifications.
// @Summary Stripe webhook
// @Description Receives signed Stripe events. Completed checkout sessions are recorded once per session.
// @Tags payment
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} WebhookAck "Event acknowledged"
// @Failure 400 {string} string "Webhook Error"
// @Failure 413 {string} string "Payload too large"
// @Failure 500 {string} string "Webhook handler error"
// @Router /webhook [post]
func StripeWebhookHandler(settlementSvc *settlement.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := c.Body()
		if len(payload) > MaxWebhookBody {
			return c.Status(fiber.StatusRequestEntityTooLarge).
				SendString("Webhook Error: payload too large")
		}

		result, err := settlementSvc.HandleEvent(c.UserContext(), payload, c.Get(SignatureHeader))
		if err != nil {
			if status := common.ErrorToStatusCode(err); status == fiber.StatusBadRequest {
				return c.Status(status).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
			}
			common.CaptureError(c, err)
			return c.Status(fiber.StatusInternalServerError).SendString("Webhook handler error")
		}

		slog.Debug("Webhook acknowledged",
			"event_id", result.EventID,
			"event_type", result.EventType,
			"outcome", result.Outcome,
		)
		return c.JSON(WebhookAck{Received: true})
	}
}
