package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a target id does not resolve to a row.
var ErrNotFound = errors.New("record not found")

// ConstraintError is a distinguished storage failure for uniqueness and
// foreign-key violations, detected at the store's commit boundary rather than
// pre-checked (pre-checking races under concurrent writes). Constraint names
// which rule failed when the driver reports it.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("constraint violation (%s): %v", e.Constraint, e.Err)
	}
	return fmt.Sprintf("constraint violation: %v", e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsNotFoundError reports whether err is a missing-row failure.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsConstraintError reports whether err is a uniqueness or foreign-key
// violation.
func IsConstraintError(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}

// AsConstraintError extracts the constraint detail, if any.
func AsConstraintError(err error) (*ConstraintError, bool) {
	var ce *ConstraintError
	ok := errors.As(err, &ce)
	return ce, ok
}

// TranslateError maps gorm's translated driver errors onto the repository
// taxonomy. Requires gorm.Config{TranslateError: true} on the connection.
func TranslateError(err error, constraint string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ConstraintError{Constraint: constraint, Err: err}
	default:
		return err
	}
}
