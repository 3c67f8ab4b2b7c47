package database

import (
	"errors"
	"fmt"
	"testing"

	"anoa.com/unimanage/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, TranslateError(nil, "x", "y"))

	err := TranslateError(fmt.Errorf("query: %w", gorm.ErrRecordNotFound), "Course not found", "dup")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "Course not found", err.Error())

	err = TranslateError(gorm.ErrDuplicatedKey, "missing", "Course code already exists")
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "Course code already exists", err.Error())

	boom := errors.New("connection refused")
	assert.Equal(t, boom, TranslateError(boom, "a", "b"))
}
