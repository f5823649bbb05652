package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("elections: invalid input")
	ErrResultNotFound        = errors.New("elections: result not found")
	ErrIdempotencyKeyMissing = errors.New("elections: idempotency key required")
	ErrIdempotencyConflict   = errors.New("elections: idempotency key reused with different payload")
)
