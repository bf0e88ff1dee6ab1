package errors

import "errors"

var (
	ErrDeclined = errors.New("payment declined")

	ErrInvalidCharge = errors.New("invalid charge")
)
