// Package apperr defines the error kinds shared by the stores, the domain
// service and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Entity names a collection.
type Entity string

const (
	EntityVenue    Entity = "venue"
	EntityReview   Entity = "review"
	EntityUser     Entity = "user"
	EntityBookmark Entity = "bookmark"
)

// ErrInvalidCredentials is returned by Authenticate when the name or password
// does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Invalid is a shorthand for building a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that an id does not resolve.
type NotFoundError struct {
	Entity Entity
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(entity Entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

type IntegrityReason string

const MissingReference IntegrityReason = "missing_reference"

// IntegrityError reports that a write referenced an entity that does not
// exist. The dependent write never happens.
type IntegrityError struct {
	Reason     IntegrityReason
	Referenced Entity
	ID         string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: referenced %s %q does not exist", e.Reason, e.Referenced, e.ID)
}

type ConflictReason string

const (
	DuplicateUsername ConflictReason = "duplicate_username"
	DuplicateBookmark ConflictReason = "duplicate_bookmark"
)

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Reason ConflictReason
}

func (e *ConflictError) Error() string {
	switch e.Reason {
	case DuplicateUsername:
		return "a user with that name already exists"
	case DuplicateBookmark:
		return "bookmark already exists"
	default:
		return "resource already exists"
	}
}

// Conflict builds a ConflictError.
func Conflict(reason ConflictReason) error {
	return &ConflictError{Reason: reason}
}

// DependencyError wraps an unexpected failure of the underlying store.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Dependency wraps err as a DependencyError unless it is already one of the
// classified kinds, in which case it is returned untouched.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	if Classified(err) {
		return err
	}
	return &DependencyError{Op: op, Err: err}
}

// Classified reports whether err carries one of the apperr kinds.
func Classified(err error) bool {
	var (
		v *ValidationError
		n *NotFoundError
		i *IntegrityError
		c *ConflictError
		d *DependencyError
	)
	return errors.As(err, &v) || errors.As(err, &n) || errors.As(err, &i) ||
		errors.As(err, &c) || errors.As(err, &d) || errors.Is(err, ErrInvalidCredentials)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsIntegrity(err error) bool {
	var i *IntegrityError
	return errors.As(err, &i)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsDependency(err error) bool {
	var d *DependencyError
	return errors.As(err, &d)
}
