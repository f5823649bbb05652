package errors

import "errors"

var (
	ErrInvalidInput       = errors.New("energy: invalid input")
	ErrAssetNotFound      = errors.New("energy: asset not found")
	ErrAssetBusy          = errors.New("energy: asset already dispatching")
	ErrAssetIdle          = errors.New("energy: asset not dispatching")
	ErrOverCapacity       = errors.New("energy: dispatch exceeds capacity")
	ErrInsufficientCharge = errors.New("energy: insufficient stored charge")
	ErrOverCharge         = errors.New("energy: charge exceeds maximum")
	ErrNotBattery         = errors.New("energy: asset is not a battery")

	ErrIdempotencyKeyMissing = errors.New("energy: idempotency key is required")
	ErrIdempotencyConflict   = errors.New("energy: idempotency key reused with different request")
)
