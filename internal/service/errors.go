package service

import (
	"errors"
	"fmt"

	"github.com/lshigami/examdesk/internal/apperr"
	"gorm.io/gorm"
)

// lookupErr turns a missing row into NotFound and wraps anything else.
func lookupErr(op, what string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Newf(apperr.KindNotFound, op, "%s %d not found", what, id)
	}
	return fmt.Errorf("%s: failed to load %s %d: %w", op, what, id, err)
}
