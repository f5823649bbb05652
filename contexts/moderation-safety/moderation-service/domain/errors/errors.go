package errors

import "errors"

var (
	ErrInvalidInput = errors.New("moderation: invalid input")
	ErrWordNotFound = errors.New("moderation: word not found")
	ErrWordExists   = errors.New("moderation: word already listed")

	ErrIdempotencyKeyMissing = errors.New("moderation: idempotency key is required")
	ErrIdempotencyConflict   = errors.New("moderation: idempotency key reused with different request")
)
