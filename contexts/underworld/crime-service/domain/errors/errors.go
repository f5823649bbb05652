package errors

import "errors"

var (
	ErrInvalidInput     = errors.New("crime: invalid input")
	ErrFacilityNotFound = errors.New("crime: facility not found")
	ErrFacilityRaided   = errors.New("crime: facility already raided")
	ErrRouteNotFound    = errors.New("crime: route not found")
	ErrChannelNotFound  = errors.New("crime: channel not found")

	ErrIdempotencyKeyMissing = errors.New("crime: idempotency key is required")
	ErrIdempotencyConflict   = errors.New("crime: idempotency key reused with different request")
)
