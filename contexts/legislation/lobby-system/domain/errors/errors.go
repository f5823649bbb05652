package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("lobby: invalid input")
	ErrOfferNotFound         = errors.New("lobby: offer not found")
	ErrOfferClosed           = errors.New("lobby: offer already closed")
	ErrIdempotencyKeyMissing = errors.New("lobby: idempotency key required")
	ErrIdempotencyConflict   = errors.New("lobby: idempotency key reused with different payload")
)
