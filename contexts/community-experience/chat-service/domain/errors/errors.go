package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("chat: invalid input")
	ErrMessageNotFound       = errors.New("chat: message not found")
	ErrMessageDeleted        = errors.New("chat: message deleted")
	ErrNotAuthor             = errors.New("chat: actor is not the author")
	ErrProfanityRejected     = errors.New("chat: message rejected by word filter")
	ErrIdempotencyKeyMissing = errors.New("chat: idempotency key is required")
	ErrIdempotencyConflict   = errors.New("chat: idempotency key reused with different request")
)
