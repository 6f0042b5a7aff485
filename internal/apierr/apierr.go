// Package apierr defines the domain error taxonomy and the stable
// error codes the API exposes to clients. Handlers branch on these
// codes instead of matching message substrings.
package apierr

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrDuplicateRSVP    = errors.New("already RSVPed for this event")
	ErrCapacityExceeded = errors.New("not enough tickets available")
	ErrAlreadyUsed      = errors.New("ticket already checked in")
	ErrCheckInBounds    = errors.New("checked-in guests outside allowed range")
)

const (
	CodeValidation       = "VALIDATION"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeDuplicateRSVP    = "DUPLICATE_RSVP"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
	CodeAlreadyUsed      = "ALREADY_USED"
	CodeCheckInBounds    = "CHECKIN_BOUNDS"
	CodeInternal         = "INTERNAL"
)

// Code maps a domain error to its wire-level error code.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrDuplicateRSVP):
		return CodeDuplicateRSVP
	case errors.Is(err, ErrCapacityExceeded):
		return CodeCapacityExceeded
	case errors.Is(err, ErrAlreadyUsed):
		return CodeAlreadyUsed
	case errors.Is(err, ErrCheckInBounds):
		return CodeCheckInBounds
	default:
		return CodeInternal
	}
}

// Status maps a domain error to its HTTP status.
func Status(err error) int {
	switch Code(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateRSVP, CodeCapacityExceeded, CodeAlreadyUsed:
		return http.StatusConflict
	case CodeCheckInBounds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
