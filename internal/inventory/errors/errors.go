package errors

import "errors"

var (
	ErrInsufficientInventory = errors.New("insufficient inventory")

	ErrUnknownResource = errors.New("unknown inventory resource")

	ErrInvalidQuantity = errors.New("quantity must be positive")

	ErrInvalidResource = errors.New("event id is required")

	ErrUnavailable = errors.New("inventory ledger unavailable")
)
