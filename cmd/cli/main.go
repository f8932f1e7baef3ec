package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang-migrate/migrate/v4"
	"github.com/spotavibe/spotavibe/infra"
	txrepo "github.com/spotavibe/spotavibe/infra/repository/transaction"
	"github.com/spotavibe/spotavibe/pkg/config"
	"github.com/spotavibe/spotavibe/pkg/dto"
	"github.com/spotavibe/spotavibe/pkg/service/portfolio"
	"gorm.io/gorm"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  migrate up|down|version   manage the transactions schema
  transactions <user_id>    print an investor's portfolio`

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	errColor  = color.New(color.FgRed, color.Bold)
	headColor = color.New(color.FgCyan, color.Bold)
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		_, _ = errColor.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		_, _ = fmt.Fprintln(out, usage)
		return nil
	}

	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close() //nolint:errcheck
	}

	switch args[0] {
	case "migrate":
		if len(args) < 2 {
			return errors.New("usage: migrate up|down|version")
		}
		return runMigrate(db, args[1], out)
	case "transactions":
		if len(args) < 2 {
			return errors.New("usage: transactions <user_id>")
		}
		svc := portfolio.New(txrepo.New(db), nil, nil, 0, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		p, err := svc.InvestorPortfolio(ctx, args[1], "")
		if err != nil {
			return err
		}
		printPortfolio(out, args[1], p)
		return nil
	default:
		_, _ = fmt.Fprintln(out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runMigrate(db *gorm.DB, direction string, out io.Writer) error {
	m, err := infra.NewMigrator(db)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		_, _ = okColor.Fprintln(out, "No migrations applied")
		return nil
	}
	if err != nil {
		return err
	}
	_, _ = okColor.Fprintf(out, "Schema version %d (dirty=%t)\n", version, dirty)
	return nil
}

func printPortfolio(out io.Writer, userID string, p *dto.InvestorPortfolio) {
	_, _ = headColor.Fprintf(out, "Portfolio for %s\n", userID)
	if len(p.Transactions) == 0 {
		_, _ = fmt.Fprintln(out, "  no investments yet")
		return
	}
	for _, tx := range p.Transactions {
		_, _ = fmt.Fprintf(out, "  %s  artist %-12s  %8s  %s\n",
			tx.Timestamp.Format(time.DateTime),
			tx.ArtistName,
			tx.Cost.StringFixed(2),
			tx.StripeSessionID,
		)
	}
	_, _ = okColor.Fprintf(out, "Total invested: %s across %d shares in %d artists\n",
		p.TotalInvested.StringFixed(2), p.TotalShares, len(p.Artists))
}
