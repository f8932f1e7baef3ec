package portfolio_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spotavibe/spotavibe/infra/cache"
	"github.com/spotavibe/spotavibe/internal/fixtures/mocks"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
	"github.com/spotavibe/spotavibe/pkg/repository"
	"github.com/spotavibe/spotavibe/pkg/service/portfolio"
	"github.com/stretchr/testify/suite"
)

type PortfolioTestSuite struct {
	suite.Suite
	repo    *mocks.TransactionRepository
	artists *mocks.ArtistRepository
	cache   *cache.MemoryCache
	svc     *portfolio.Service
	ctx     context.Context
}

func (s *PortfolioTestSuite) SetupTest() {
	s.repo = mocks.NewTransactionRepository(s.T())
	s.artists = mocks.NewArtistRepository(s.T())
	s.cache = cache.NewMemoryCache()
	s.svc = portfolio.New(s.repo, s.artists, s.cache, time.Minute, nil)
	s.ctx = context.Background()
}

func (s *PortfolioTestSuite) TearDownTest() {
	_ = s.cache.Close()
}

func tx(session, user, email, artist string, cents int64, at time.Time) *investment.Transaction {
	t, err := investment.NewTransaction(session, user, email, investment.ArtistID(artist), cents, at)
	if err != nil {
		panic(err)
	}
	return t
}

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func (s *PortfolioTestSuite) TestInvestorPortfolio() {
	s.repo.On("ListByUser", s.ctx, "user-1", "").Return([]*investment.Transaction{
		tx("cs_3", "user-1", "a@x.io", "artist-2", 1000, base.Add(2*time.Hour)),
		tx("cs_2", "user-1", "a@x.io", "artist-1", 2550, base.Add(time.Hour)),
		tx("cs_1", "user-1", "a@x.io", "artist-1", 500, base),
	}, nil).Once()

	got, err := s.svc.InvestorPortfolio(s.ctx, "user-1", " ")
	s.Require().NoError(err)
	s.Len(got.Transactions, 3)
	s.Equal("cs_3", got.Transactions[0].StripeSessionID)
	s.Equal("40.50", got.TotalInvested.StringFixed(2))
	s.Equal(3, got.TotalShares)
	s.Equal([]string{"artist-2", "artist-1"}, got.Artists)
}

func (s *PortfolioTestSuite) TestInvestorPortfolio_Empty() {
	s.repo.On("ListByUser", s.ctx, "user-2", "artist-1").
		Return([]*investment.Transaction{}, nil).Once()

	got, err := s.svc.InvestorPortfolio(s.ctx, "user-2", "artist-1")
	s.Require().NoError(err)
	s.Empty(got.Transactions)
	s.NotNil(got.Artists)
	s.True(got.TotalInvested.IsZero())
}

func (s *PortfolioTestSuite) TestInvestorPortfolio_StoreError() {
	s.repo.On("ListByUser", s.ctx, "user-1", "").Return(nil, errors.New("db down")).Once()

	_, err := s.svc.InvestorPortfolio(s.ctx, "user-1", "")
	s.Error(err)
}

func (s *PortfolioTestSuite) TestArtistInvestors_GroupsAndOrders() {
	s.repo.On("ListByArtist", s.ctx, "artist-1").Return([]*investment.Transaction{
		tx("cs_1", "u1", "bob@x.io", "artist-1", 1000, base),
		tx("cs_2", "u2", "amy@x.io", "artist-1", 1000, base),
		tx("cs_3", "u1", "bob@x.io", "artist-1", 1500, base),
		tx("cs_4", "u3", "", "artist-1", 700, base),
		tx("cs_5", "u4", "cat@x.io", "artist-1", 1000, base),
	}, nil).Once()

	got, err := s.svc.ArtistInvestors(s.ctx, "artist-1", "")
	s.Require().NoError(err)
	s.Equal("artist-1", got.Artist)
	s.Equal("52.00", got.TotalInvested.StringFixed(2))
	s.Equal(5, got.TotalShares)
	s.Require().Len(got.Investors, 3)
	s.Equal("bob@x.io", got.Investors[0].Email)
	s.True(decimal.RequireFromString("25").Equal(got.Investors[0].TotalInvested))
	s.Equal(2, got.Investors[0].TotalShares)
	s.Equal(2, got.Investors[0].Transactions)
	s.Equal("amy@x.io", got.Investors[1].Email)
	s.Equal("cat@x.io", got.Investors[2].Email)
}

func (s *PortfolioTestSuite) TestArtistInvestors_CachedAndSearched() {
	s.repo.On("ListByArtist", s.ctx, "artist-1").Return([]*investment.Transaction{
		tx("cs_1", "u1", "Bob@x.io", "artist-1", 1000, base),
		tx("cs_2", "u2", "amy@x.io", "artist-1", 2000, base),
	}, nil).Once()

	first, err := s.svc.ArtistInvestors(s.ctx, "artist-1", "")
	s.Require().NoError(err)
	s.Len(first.Investors, 2)

	filtered, err := s.svc.ArtistInvestors(s.ctx, "artist-1", "BOB")
	s.Require().NoError(err)
	s.Require().Len(filtered.Investors, 1)
	s.Equal("Bob@x.io", filtered.Investors[0].Email)
	s.Equal("30.00", filtered.TotalInvested.StringFixed(2))
}

func (s *PortfolioTestSuite) TestMyArtistInvestors_ResolvesOwnProfile() {
	s.artists.On("GetByUserID", s.ctx, "artist-user").
		Return(&investment.Artist{UserID: "artist-user", Name: "artist-1"}, nil).Once()
	s.repo.On("ListByArtist", s.ctx, "artist-1").Return([]*investment.Transaction{
		tx("cs_1", "u1", "bob@x.io", "artist-1", 1000, base),
	}, nil).Once()

	got, err := s.svc.MyArtistInvestors(s.ctx, "artist-user", "")
	s.Require().NoError(err)
	s.Equal("artist-1", got.Artist)
	s.Len(got.Investors, 1)
}

func (s *PortfolioTestSuite) TestMyArtistInvestors_NoProfile() {
	s.artists.On("GetByUserID", s.ctx, "fan-1").Return(nil, repository.ErrNotFound).Once()

	got, err := s.svc.MyArtistInvestors(s.ctx, "fan-1", "")
	s.ErrorIs(err, investment.ErrNotAnArtist)
	s.Nil(got)
}

func (s *PortfolioTestSuite) TestMyArtistInvestors_LookupError() {
	boom := errors.New("db down")
	s.artists.On("GetByUserID", s.ctx, "artist-user").Return(nil, boom).Once()

	_, err := s.svc.MyArtistInvestors(s.ctx, "artist-user", "")
	s.ErrorIs(err, boom)
	s.NotErrorIs(err, investment.ErrNotAnArtist)
}

func (s *PortfolioTestSuite) TestInvalidate_ReloadsFromStore() {
	s.repo.On("ListByArtist", s.ctx, "artist-1").Return([]*investment.Transaction{
		tx("cs_1", "u1", "bob@x.io", "artist-1", 1000, base),
	}, nil).Once()
	_, err := s.svc.ArtistInvestors(s.ctx, "artist-1", "")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Invalidate(s.ctx, "artist-1"))

	s.repo.On("ListByArtist", s.ctx, "artist-1").Return([]*investment.Transaction{
		tx("cs_2", "u1", "bob@x.io", "artist-1", 1000, base),
		tx("cs_1", "u1", "bob@x.io", "artist-1", 1000, base),
	}, nil).Once()
	got, err := s.svc.ArtistInvestors(s.ctx, "artist-1", "")
	s.Require().NoError(err)
	s.Equal(2, got.TotalShares)
}

func TestPortfolioTestSuite(t *testing.T) {
	suite.Run(t, new(PortfolioTestSuite))
}

func TestNew_WithoutCache(t *testing.T) {
	repo := mocks.NewTransactionRepository(t)
	svc := portfolio.New(repo, nil, nil, 0, nil)
	ctx := context.Background()

	repo.On("ListByArtist", ctx, "a").Return([]*investment.Transaction{}, nil).Twice()
	for range 2 {
		_, err := svc.ArtistInvestors(ctx, "a", "")
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.Invalidate(ctx, "a"); err != nil {
		t.Fatal(err)
	}
}
