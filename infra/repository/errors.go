package repository

import (
	"errors"

	"github.com/spotavibe/spotavibe/pkg/repository"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to repository errors.
// Errors outside the mapping are returned unchanged.
func MapGormErrorToDomain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrAlreadyExists
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	default:
		return err
	}
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).First(&m).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}
