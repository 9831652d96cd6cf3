package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/swingeats/swingeats/internal/repo"
)

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrNotFound          = errors.New("not found")          // 404
	ErrInvalidTransition = errors.New("invalid transition") // 409
	ErrTransientStore    = errors.New("store unavailable")  // 503
)

// storeErr translates persistence errors into the service taxonomy.
func storeErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	what := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repo.ErrStatusMismatch):
		return fmt.Errorf("%w: %s", ErrInvalidTransition, what)
	case repo.IsTransient(err):
		return fmt.Errorf("%w: %s: %v", ErrTransientStore, what, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
