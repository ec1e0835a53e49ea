package storage

import (
	"errors"
	"fmt"
)

// Sentinels for the two failure kinds the core produces. Callers test with
// errors.Is; the typed errors below carry the details.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Entity kinds used in NotFoundError.
const (
	KindStudent = "Student"
	KindCourse  = "Course"
)

// NotFoundError reports that an entity of Kind with ID does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictReason classifies a ConflictError.
type ConflictReason string

const (
	ReasonDuplicateEmail      ConflictReason = "duplicate_email"
	ReasonDuplicateEnrollment ConflictReason = "duplicate_enrollment"
)

// ConflictError reports that a write would break a uniqueness invariant.
type ConflictError struct {
	Reason  ConflictReason
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NotFound builds a *NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
