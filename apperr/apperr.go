// Package apperr defines the error taxonomy shared by the domain
// packages. Every error here is recoverable at the request boundary;
// handlers map them to HTTP status codes and user-facing messages.
package apperr

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound: a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: authenticated but not authorized for this entity.
	ErrForbidden = errors.New("forbidden")
	// ErrUnavailable: domain rule violation, e.g. adding a menu item
	// that is no longer available. Distinct from ErrNotFound so the UI
	// can say "no longer available" instead of 404.
	ErrUnavailable = errors.New("unavailable")
	// ErrConflict: duplicate review, invalid favorites permutation.
	ErrConflict = errors.New("conflict")
	// ErrEmptyOrder: checkout attempted with zero line items.
	ErrEmptyOrder = errors.New("order has no items")
)

// UnavailableItemsError reports every currently-unavailable item in a
// cart at checkout time, not just the first, so the customer can remove
// them all in one pass.
type UnavailableItemsError struct {
	Names []string
}

func (e *UnavailableItemsError) Error() string {
	return "items no longer available: " + strings.Join(e.Names, ", ")
}

func (e *UnavailableItemsError) Is(target error) bool {
	return target == ErrUnavailable
}
