package services

import (
	"errors"
	"fmt"

	"github.com/campusops/records-service/internal/repositories"
)

// Sentinel not-found errors, one per entity, so handlers can map them with
// errors.Is.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrTeacherNotFound    = errors.New("teacher not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PermissionError is a policy denial: the actor lacks the role or the
// row-level ownership the operation requires. Always returned before any
// store mutation.
type PermissionError struct {
	ActorID    uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(actorID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		ActorID:    actorID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	if e.ResourceID != 0 {
		return fmt.Sprintf("user %d may not %s %s %d: %s", e.ActorID, e.Action, e.Resource, e.ResourceID, e.Reason)
	}
	return fmt.Sprintf("user %d may not %s %s: %s", e.ActorID, e.Action, e.Resource, e.Reason)
}

// IsPermissionError reports whether err is a policy denial.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// ConflictError is a store-level constraint violation surfaced after a failed
// write; the transaction has already been rolled back.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// translateStoreError maps repository failures onto the service taxonomy.
// notFound names the entity the caller was targeting.
func translateStoreError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if repositories.IsNotFoundError(err) {
		return notFound
	}
	if ce, ok := repositories.AsConstraintError(err); ok {
		return &ConflictError{Message: ce.Constraint, Err: ce}
	}
	return err
}
