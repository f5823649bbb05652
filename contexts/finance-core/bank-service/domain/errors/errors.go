package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("bank: invalid input")
	ErrPrincipalOutOfBounds  = errors.New("bank: principal out of bounds")
	ErrLoanNotFound          = errors.New("bank: loan not found")
	ErrLoanRepaid            = errors.New("bank: loan already repaid")
	ErrDepositNotFound       = errors.New("bank: deposit not found")
	ErrInsufficientFunds     = errors.New("bank: insufficient funds")
	ErrIdempotencyKeyMissing = errors.New("bank: idempotency key required")
	ErrIdempotencyConflict   = errors.New("bank: idempotency key reused with different payload")
)
