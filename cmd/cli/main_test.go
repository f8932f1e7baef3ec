package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spotavibe/spotavibe/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, &out))
	assert.Contains(t, out.String(), "Usage: cli")
}

func TestPrintPortfolio(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	printPortfolio(&out, "user-1", &dto.InvestorPortfolio{
		Transactions: []dto.TransactionRead{{
			ArtistName:      "42",
			Cost:            decimal.RequireFromString("25"),
			StripeSessionID: "cs_1",
			Timestamp:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}},
		TotalInvested: decimal.RequireFromString("25"),
		TotalShares:   1,
		Artists:       []string{"42"},
	})
	s := out.String()
	assert.Contains(t, s, "Portfolio for user-1")
	assert.Contains(t, s, "25.00")
	assert.Contains(t, s, "cs_1")
	assert.Contains(t, s, "Total invested: 25.00 across 1 shares in 1 artists")
}

func TestPrintPortfolio_Empty(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	printPortfolio(&out, "user-2", &dto.InvestorPortfolio{})
	assert.Contains(t, out.String(), "no investments yet")
}
