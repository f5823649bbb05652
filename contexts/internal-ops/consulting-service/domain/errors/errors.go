package errors

import "errors"

var (
	ErrInvalidInput = errors.New("consulting: invalid input")

	ErrIdempotencyKeyMissing = errors.New("consulting: idempotency key is required")
	ErrIdempotencyConflict   = errors.New("consulting: idempotency key reused with different request")
)
