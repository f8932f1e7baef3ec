package artist

import (
	"context"

	"github.com/spotavibe/spotavibe/infra/repository"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
	repo "github.com/spotavibe/spotavibe/pkg/repository/artist"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// New creates an artist repository backed by the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &gormRepository{db: db}
}

// GetByUserID implements artist.Repository.
func (r *gormRepository) GetByUserID(
	ctx context.Context,
	userID string,
) (*investment.Artist, error) {
	var m Artist
	if err := repository.WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			First(&m).Error
	}); err != nil {
		return nil, err
	}
	return &investment.Artist{
		UserID: m.UserID,
		Name:   investment.ArtistID(m.ArtistName),
	}, nil
}
