// Package apperr defines the typed failures returned by the storefront core
// and their translation into HTTP status codes and user-safe messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds. Callers match them with errors.Is.
var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrOutOfStock        = errors.New("out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotFound          = errors.New("not found")
	ErrLockTimeout       = errors.New("could not acquire stock lock in time")
	ErrUnauthorized      = errors.New("authentication required")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
)

// Error carries an operation name and a user-facing message around one of the
// failure kinds above.
type Error struct {
	// Op is the operation where the error occurred, e.g. "cart.add_item".
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

// Is matches the failure kind so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error of the given kind.
func New(op string, kind error, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing (or not owned) entity.
func NotFound(op, entity string, id uint) *Error {
	return &Error{Op: op, Kind: ErrNotFound, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

// InvalidQuantity reports a quantity outside [1, max].
func InvalidQuantity(op string, quantity, max int) *Error {
	return &Error{Op: op, Kind: ErrInvalidQuantity, Message: fmt.Sprintf("quantity must be between 1 and %d, got %d", max, quantity)}
}

// LockTimeout wraps a lock wait failure reported by the database.
func LockTimeout(op string, err error) *Error {
	return &Error{Op: op, Kind: ErrLockTimeout, Message: "stock is busy, please retry", Err: err}
}

// StockError names the bag whose stock could not cover a request.
type StockError struct {
	Kind      error // ErrOutOfStock or ErrInsufficientStock
	BagID     uint
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%v: bag %d requested %d, available %d", e.Kind, e.BagID, e.Requested, e.Available)
}

// Is makes both stock kinds match ErrOutOfStock, so callers only need one check.
func (e *StockError) Is(target error) bool {
	return target == e.Kind || target == ErrOutOfStock
}

// OutOfStock builds the user-facing stock failure.
func OutOfStock(bagID uint, requested, available int) *StockError {
	if available < 0 {
		available = 0
	}
	return &StockError{Kind: ErrOutOfStock, BagID: bagID, Requested: requested, Available: available}
}

// HTTPStatus maps a failure to a response status. Unknown errors are 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrOutOfStock), errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrLockTimeout):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns a message safe to show to the customer.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}

	var stockErr *StockError
	if errors.As(err, &stockErr) {
		return fmt.Sprintf("Not enough bags in stock. Available: %d.", stockErr.Available)
	}

	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	if HTTPStatus(err) == http.StatusInternalServerError {
		return "An internal error occurred. Please try again later."
	}
	return err.Error()
}
