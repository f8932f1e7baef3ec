package portfolio

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
	"github.com/spotavibe/spotavibe/pkg/dto"
)

func aggregate(artist string, txs []*investment.Transaction) *dto.ArtistInvestors {
	out := &dto.ArtistInvestors{
		Artist:        artist,
		TotalInvested: decimal.Zero,
		Investors:     []dto.InvestorSummary{},
	}
	index := make(map[string]int)
	for _, tx := range txs {
		out.TotalInvested = out.TotalInvested.Add(tx.Cost)
		out.TotalShares += tx.AmountBought

		email := strings.TrimSpace(tx.Email)
		if email == "" {
			continue
		}
		i, ok := index[email]
		if !ok {
			i = len(out.Investors)
			index[email] = i
			out.Investors = append(out.Investors, dto.InvestorSummary{
				Email:         email,
				TotalInvested: decimal.Zero,
			})
		}
		inv := &out.Investors[i]
		inv.TotalInvested = inv.TotalInvested.Add(tx.Cost)
		inv.TotalShares += tx.AmountBought
		inv.Transactions++
	}

	sort.SliceStable(out.Investors, func(a, b int) bool {
		ia, ib := out.Investors[a], out.Investors[b]
		if c := ia.TotalInvested.Cmp(ib.TotalInvested); c != 0 {
			return c > 0
		}
		return ia.Email < ib.Email
	})
	return out
}
