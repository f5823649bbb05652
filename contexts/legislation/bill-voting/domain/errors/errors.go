package errors

import "errors"

var (
	ErrInvalidBillInput       = errors.New("invalid bill input")
	ErrInvalidVoteInput       = errors.New("invalid vote input")
	ErrBillNotFound           = errors.New("bill not found")
	ErrVoteNotFound           = errors.New("ballot vote not found")
	ErrBillNotOpenForVoting   = errors.New("bill is not open for voting")
	ErrBillAlreadyClosed      = errors.New("bill voting is already closed")
	ErrChamberMismatch        = errors.New("member chamber does not match bill chamber")
	ErrAlreadyRetracted       = errors.New("ballot vote is already retracted")
	ErrConflict               = errors.New("ballot conflict")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
)
