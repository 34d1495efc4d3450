package service

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when a submission is attempted without an
// acting user identity. It is checked before field validation and before any
// network call.
var ErrUnauthenticated = errors.New("authentication required")

// ErrListingNotFound is returned when a listing requested for editing does
// not exist.
var ErrListingNotFound = errors.New("listing not found")

// ErrListingTypeMismatch is returned when a listing is opened in an editor
// that serves a different listing type.
var ErrListingTypeMismatch = errors.New("listing type does not match editor")

// ValidationError reports the first rule a draft violated. It is always
// recoverable locally: the user corrects the field and resubmits.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UnsupportedFileError is raised at attach time when a file fails the
// acceptance policy. The file never enters the basket.
type UnsupportedFileError struct {
	Name   string
	Reason string
}

func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("file %q rejected: %s", e.Name, e.Reason)
}

// PersistenceError wraps a failure from the listing persistence collaborator.
// A create failure is fatal to the submission attempt: no listing exists and
// the user must resubmit.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("listing %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
