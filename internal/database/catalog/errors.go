package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested author or book does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation is returned when the store rejects a write
	// (not-null, foreign key, check).
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrForeignKeyViolation narrows ErrConstraintViolation to a dangling reference.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// translateError maps driver and gorm errors onto the package's sentinel errors,
// keeping the original message.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return fmt.Errorf("%w: %w: %v", ErrConstraintViolation, ErrForeignKeyViolation, err)
		}
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}

	// Some driver paths only surface the message text
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %w: %v", ErrConstraintViolation, ErrForeignKeyViolation, err)
	case strings.Contains(msg, "constraint failed"):
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	return err
}
