package domain

import "errors"

var (
	ErrValidation             = errors.New("validation error")
	ErrInvalidState           = errors.New("invalid state transition")
	ErrConflictActiveDelivery = errors.New("courier already has a delivery in transit")
	ErrNotFound               = errors.New("not found")
	ErrStoreFailure           = errors.New("store failure")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("access forbidden")
	ErrBatchTimeout           = errors.New("batch processing timed out")
	ErrDuplicate              = errors.New("duplicate telemetry")
)

// Not-found errors keep a common root so public lookups stay indistinguishable.
var (
	ErrDeliveryNotFound = &notFoundError{what: "delivery"}
	ErrCourierNotFound  = &notFoundError{what: "courier"}
)

type notFoundError struct{ what string }

func (e *notFoundError) Error() string { return e.what + " not found" }

func (e *notFoundError) Unwrap() error { return ErrNotFound }
