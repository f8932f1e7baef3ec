package checkout

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
	"github.com/spotavibe/spotavibe/pkg/middleware"
	"github.com/spotavibe/spotavibe/pkg/service/checkout"
	"github.com/spotavibe/spotavibe/webapi/common"
)

// MissingFieldsMessage is returned when artistId or amount is absent.
const MissingFieldsMessage = "Missing artistId or amount"

// Routes registers HTTP routes for checkout-related operations.
func Routes(
	app *fiber.App,
	checkoutSvc *checkout.Service,
	authSvc middleware.Authenticator,
) {
	app.Post(
		"/create-checkout-session",
		middleware.Protected(authSvc, common.Unauthorized),
		CreateCheckoutSession(checkoutSvc),
	)
}

// CreateCheckoutSession returns a Fiber handler that starts a hosted
// checkout for the authenticated investor.
// @Summary Create a checkout session
// @Description Creates a Stripe Checkout session for an investment in an artist and returns its URL.
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Purchase"
// @Success 200 {object} CreateSessionResponse "Checkout page URL"
// @Failure 400 {object} common.ErrorResponse "Missing or invalid fields"
// @Failure 401 {object} common.ErrorResponse "Unauthorized"
// @Failure 502 {object} common.ErrorResponse "Payment gateway error"
// @Failure 500 {object} common.ErrorResponse "Internal server error"
// @Router /create-checkout-session [post]
// @Security BearerAuth
func CreateCheckoutSession(checkoutSvc *checkout.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			return common.Unauthorized(c)
		}

		input, err := common.BindAndValidate[CreateSessionRequest](c)
		if input == nil {
			slog.Debug("Rejected checkout body", "error", err)
			return nil // error response already written
		}

		session, err := checkoutSvc.CreateSession(
			c.UserContext(),
			identity,
			investment.PurchaseRequest{ArtistID: input.ArtistID, Amount: *input.Amount},
		)
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		return c.JSON(CreateSessionResponse{URL: session.URL})
	}
}
