package database

import (
	"errors"

	"anoa.com/unimanage/pkg/apperror"
	"gorm.io/gorm"
)

// TranslateError maps gorm sentinel errors onto apperror kinds, using the
// given messages as the client-facing text. Other errors pass through.
func TranslateError(err error, notFoundMsg, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict(conflictMsg)
	}
	return err
}
