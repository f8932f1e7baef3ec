package portfolio

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spotavibe/spotavibe/pkg/middleware"
	"github.com/spotavibe/spotavibe/pkg/service/portfolio"
	"github.com/spotavibe/spotavibe/webapi/common"
)

// Routes registers the dashboard read endpoints.
func Routes(
	app *fiber.App,
	portfolioSvc *portfolio.Service,
	authSvc middleware.Authenticator,
) {
	protected := middleware.Protected(authSvc, common.Unauthorized)
	app.Get("/transactions", protected, GetTransactions(portfolioSvc))
	app.Get("/artist/investors", protected, GetArtistInvestors(portfolioSvc))
}

// GetTransactions returns the caller's investments.
// @Summary List my investments
// @Description Lists the authenticated investor's transactions newest first with totals.
// @Tags portfolio
// @Produce json
// @Param artist query string false "Restrict to one artist"
// @Success 200 {object} common.Response{data=dto.InvestorPortfolio} "Transactions fetched"
// @Failure 401 {object} common.ErrorResponse "Unauthorized"
// @Failure 500 {object} common.ErrorResponse "Internal server error"
// @Router /transactions [get]
// @Security BearerAuth
func GetTransactions(portfolioSvc *portfolio.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			return common.Unauthorized(c)
		}
		out, err := portfolioSvc.InvestorPortfolio(c.UserContext(), identity.ID, c.Query("artist"))
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "Transactions fetched", out)
	}
}

// GetArtistInvestors returns the investors of the caller's own artist
// profile grouped by email.
// @Summary List my artist's investors
// @Description Groups the authenticated artist's transactions by investor email, ordered by total invested.
// @Tags portfolio
// @Produce json
// @Param search query string false "Email substring"
// @Success 200 {object} common.Response{data=dto.ArtistInvestors} "Investors fetched"
// @Failure 401 {object} common.ErrorResponse "Unauthorized"
// @Failure 403 {object} common.ErrorResponse "Caller has no artist profile"
// @Failure 500 {object} common.ErrorResponse "Internal server error"
// @Router /artist/investors [get]
// @Security BearerAuth
func GetArtistInvestors(portfolioSvc *portfolio.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			return common.Unauthorized(c)
		}
		out, err := portfolioSvc.MyArtistInvestors(c.UserContext(), identity.ID, c.Query("search"))
		if err != nil {
			return common.ErrorResponseJSON(c, err)
		}
		return common.SuccessJSON(c, fiber.StatusOK, "Investors fetched", out)
	}
}
