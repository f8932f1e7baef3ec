package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spotavibe/spotavibe/pkg/cache"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
	"github.com/spotavibe/spotavibe/pkg/dto"
	"github.com/spotavibe/spotavibe/pkg/repository"
	artistrepo "github.com/spotavibe/spotavibe/pkg/repository/artist"
	"github.com/spotavibe/spotavibe/pkg/repository/transaction"
)

const artistKeyPrefix = "portfolio:artist:"

// Service serves the investor and artist dashboards.
type Service struct {
	repo    transaction.Repository
	artists artistrepo.Repository
	cache   cache.Store
	ttl     time.Duration
	logger  *slog.Logger
}

// New creates a portfolio service. store may be nil to disable caching.
func New(
	repo transaction.Repository,
	artists artistrepo.Repository,
	store cache.Store,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, artists: artists, cache: store, ttl: ttl, logger: logger}
}

// InvestorPortfolio returns the user's transactions newest first with
// totals. artistFilter may be empty.
func (s *Service) InvestorPortfolio(
	ctx context.Context,
	userID, artistFilter string,
) (*dto.InvestorPortfolio, error) {
	txs, err := s.repo.ListByUser(ctx, userID, strings.TrimSpace(artistFilter))
	if err != nil {
		s.logger.Error("Failed to list transactions", "user_id", userID, "error", err)
		return nil, err
	}

	out := &dto.InvestorPortfolio{
		Transactions:  make([]dto.TransactionRead, 0, len(txs)),
		TotalInvested: decimal.Zero,
		Artists:       []string{},
	}
	seen := make(map[string]struct{})
	for _, tx := range txs {
		out.Transactions = append(out.Transactions, dto.ToTransactionRead(tx))
		out.TotalInvested = out.TotalInvested.Add(tx.Cost)
		out.TotalShares += tx.AmountBought
		artist := tx.ArtistID.String()
		if _, ok := seen[artist]; !ok {
			seen[artist] = struct{}{}
			out.Artists = append(out.Artists, artist)
		}
	}
	return out, nil
}

// MyArtistInvestors returns the investors of the artist profile owned by
// userID. It fails with investment.ErrNotAnArtist when the user has none.
func (s *Service) MyArtistInvestors(
	ctx context.Context,
	userID, search string,
) (*dto.ArtistInvestors, error) {
	profile, err := s.artists.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, investment.ErrNotAnArtist
	}
	if err != nil {
		s.logger.Error("Failed to resolve artist profile", "user_id", userID, "error", err)
		return nil, err
	}
	return s.ArtistInvestors(ctx, profile.Name.String(), search)
}

// ArtistInvestors groups an artist's transactions by investor email.
// search filters investors by a case-insensitive substring of their email
// and is applied after the cached aggregate is loaded.
func (s *Service) ArtistInvestors(
	ctx context.Context,
	artist, search string,
) (*dto.ArtistInvestors, error) {
	log := s.logger.With("handler", "portfolio.ArtistInvestors", "artist", artist)

	agg, err := s.loadArtist(ctx, log, artist)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return agg, nil
	}
	filtered := *agg
	filtered.Investors = make([]dto.InvestorSummary, 0, len(agg.Investors))
	for _, inv := range agg.Investors {
		if strings.Contains(strings.ToLower(inv.Email), search) {
			filtered.Investors = append(filtered.Investors, inv)
		}
	}
	return &filtered, nil
}

// Invalidate drops the cached aggregate for artist.
func (s *Service) Invalidate(ctx context.Context, artist string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, artistKeyPrefix+artist)
}

func (s *Service) loadArtist(
	ctx context.Context,
	log *slog.Logger,
	artist string,
) (*dto.ArtistInvestors, error) {
	key := artistKeyPrefix + artist
	if s.cache != nil {
		cached, ok, err := cache.GetJSON[dto.ArtistInvestors](ctx, s.cache, key)
		if err != nil {
			log.Warn("Portfolio cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	txs, err := s.repo.ListByArtist(ctx, artist)
	if err != nil {
		log.Error("Failed to list artist transactions", "error", err)
		return nil, err
	}
	agg := aggregate(artist, txs)

	if s.cache != nil && s.ttl > 0 {
		if err := cache.SetJSON(ctx, s.cache, key, agg, s.ttl); err != nil {
			log.Warn("Portfolio cache write failed", "error", err)
		}
	}
	return agg, nil
}
