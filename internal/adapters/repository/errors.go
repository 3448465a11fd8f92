package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/okian/careertrack/internal/domain/model"
)

// Sentinel kinds for store errors.
var (
	ErrStore             = errors.New("store operation failed")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// translate maps driver errors onto domain kinds. Domain errors pass
// through untouched.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrAlreadyCompleted),
		errors.Is(err, model.ErrUnauthorized),
		errors.Is(err, model.ErrValidation):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
	}
}
