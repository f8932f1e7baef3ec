package transaction

import (
	"context"

	"github.com/spotavibe/spotavibe/infra/repository"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
	repo "github.com/spotavibe/spotavibe/pkg/repository/transaction"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormRepository struct {
	db *gorm.DB
}

// New creates a transaction repository backed by the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &gormRepository{db: db}
}

// CreateIfAbsent implements transaction.Repository. The insert is a single
// INSERT ... ON CONFLICT (stripe_session_id) DO NOTHING, so concurrent
// deliveries of the same session resolve in the database.
func (r *gormRepository) CreateIfAbsent(
	ctx context.Context,
	tx *investment.Transaction,
) (bool, error) {
	m := mapDomainToModel(tx)
	result := r.db.WithContext(
		ctx,
	).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_session_id"}},
			DoNothing: true,
		},
	).Create(&m)
	if result.Error != nil {
		return false, repository.MapGormErrorToDomain(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	tx.CreatedAt = m.CreatedAt
	return true, nil
}

// GetBySessionID implements transaction.Repository.
func (r *gormRepository) GetBySessionID(
	ctx context.Context,
	sessionID string,
) (*investment.Transaction, error) {
	var m Transaction
	if err := repository.WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("stripe_session_id = ?", sessionID).
			First(&m).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

// ListByUser implements transaction.Repository.
func (r *gormRepository) ListByUser(
	ctx context.Context,
	userID string,
	artistID string,
) ([]*investment.Transaction, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if artistID != "" {
		q = q.Where("artist_name = ?", artistID)
	}
	return r.list(q)
}

// ListByArtist implements transaction.Repository.
func (r *gormRepository) ListByArtist(
	ctx context.Context,
	artistID string,
) ([]*investment.Transaction, error) {
	return r.list(r.db.WithContext(ctx).Where("artist_name = ?", artistID))
}

func (r *gormRepository) list(q *gorm.DB) ([]*investment.Transaction, error) {
	var rows []Transaction
	if err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Find(&rows).Error; err != nil {
		return nil, repository.MapGormErrorToDomain(err)
	}
	out := make([]*investment.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, mapModelToDomain(&rows[i]))
	}
	return out, nil
}

func mapDomainToModel(tx *investment.Transaction) Transaction {
	return Transaction{
		ID:              tx.ID,
		UserID:          tx.UserID,
		ArtistName:      tx.ArtistID.String(),
		AmountBought:    tx.AmountBought,
		Cost:            tx.Cost,
		StripeSessionID: tx.StripeSessionID,
		Timestamp:       tx.Timestamp,
		Email:           tx.Email,
	}
}

func mapModelToDomain(m *Transaction) *investment.Transaction {
	return &investment.Transaction{
		ID:              m.ID,
		UserID:          m.UserID,
		ArtistID:        investment.ArtistID(m.ArtistName),
		AmountBought:    m.AmountBought,
		Cost:            m.Cost,
		StripeSessionID: m.StripeSessionID,
		Timestamp:       m.Timestamp.UTC(),
		Email:           m.Email,
		CreatedAt:       m.CreatedAt,
	}
}
