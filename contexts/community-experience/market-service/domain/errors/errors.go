package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("market: invalid input")
	ErrListingNotFound       = errors.New("market: listing not found")
	ErrListingClosed         = errors.New("market: listing is not open")
	ErrNotSeller             = errors.New("market: actor is not the seller")
	ErrSelfTrade             = errors.New("market: buyer and seller must differ")
	ErrIdempotencyKeyMissing = errors.New("market: idempotency key is required")
	ErrIdempotencyConflict   = errors.New("market: idempotency key reused with different request")
)
