package gormdb

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

// translate maps driver and gorm errors to domain error kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// sqlite: "UNIQUE constraint failed"; postgres: SQLSTATE 23505.
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "23505")
}
