// Package errs defines the service-wide error taxonomy and its HTTP mapping.
package errs

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated means no valid caller identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnauthorized means the caller lacks the role required for the operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidArgument means a malformed or out-of-range input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyExists means a duplicate idempotency key, e.g. a payment id
	// that has already been credited.
	ErrAlreadyExists = errors.New("already exists")

	// ErrSeatUnavailable means the seat is not currently available for reservation.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrInsufficientFunds means the wallet balance cannot cover the debit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound means a referenced game, seat, claim or user is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by the ledger when a conditional update lost the
	// race on every attempt. Services translate it into the business error
	// appropriate for the key they were updating.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrInvariant marks an internal defect (e.g. ticket rebalancing failed to
	// converge, or a compensation step could not be applied). It is fatal for
	// the operation, never retried, and never exposed with internal detail.
	ErrInvariant = errors.New("invariant violation")
)

// Message returns the user-facing message for a business error. Internal
// errors collapse to a generic message.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "You must be logged in."
	case errors.Is(err, ErrUnauthorized):
		return "Access denied."
	case errors.Is(err, ErrInvalidArgument):
		return "Invalid request."
	case errors.Is(err, ErrAlreadyExists):
		return "Payment already processed"
	case errors.Is(err, ErrSeatUnavailable):
		return "Seat already taken! Choose another."
	case errors.Is(err, ErrInsufficientFunds):
		return "Insufficient balance"
	case errors.Is(err, ErrNotFound):
		return "Not found."
	default:
		return "Something went wrong. Please try again."
	}
}

// HTTPStatus maps an error to the status code handlers should write.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrSeatUnavailable), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
