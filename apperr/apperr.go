// Package apperr defines the expected, user-correctable error conditions of
// the marketplace. Handlers map these to HTTP statuses; none are retried
// automatically.
package apperr

import (
	"errors"
	"fmt"

	"playpal/models"
)

var (
	ErrNotAuthenticated   = errors.New("not logged in")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionFull        = errors.New("session is full")
	ErrAmbiguousPrefix    = errors.New("id prefix matches more than one record")
	// ErrBusy signals lock contention on an account or session; the caller
	// should retry with the same input.
	ErrBusy = errors.New("resource busy, please retry")
)

// NotFoundError reports a missing entity by kind ("user", "trainer",
// "session", "booking").
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// NotFound builds a NotFoundError for the given entity kind.
func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// IsNotFound reports whether err is a NotFoundError of any entity kind.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InsufficientFundsError carries the exact shortfall so the presentation
// layer can display both figures.
type InsufficientFundsError struct {
	Required  models.Cents
	Available models.Cents
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s", e.Required, e.Available)
}

// BookingFailedError covers the precondition failures of the booking
// transaction other than funds: not logged in, trainer missing, target not a
// trainer, trainer not approved.
type BookingFailedError struct {
	Reason string
}

func (e *BookingFailedError) Error() string {
	return "booking failed: " + e.Reason
}

func BookingFailed(reason string) error {
	return &BookingFailedError{Reason: reason}
}

// StorageUnavailableError wraps a repository fault. Fatal for the current
// operation, not for the process.
type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return "storage unavailable: " + e.Err.Error()
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

func StorageUnavailable(err error) error {
	return &StorageUnavailableError{Err: err}
}
