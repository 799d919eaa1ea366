package dao

import (
	"github.com/haierkeys/fast-note-board/internal/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// wrapErr maps a gorm error to a domain error. what names the missing entity.
func wrapErr(op, what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(op, what)
	}
	return domain.Storage(op, err)
}
