package errors

import "errors"

var (
	ErrUnknownChamber = errors.New("unknown chamber")
	ErrUnknownState   = errors.New("unknown state")
)
