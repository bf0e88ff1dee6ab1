package errors

import "errors"

var (
	// ErrTransient is a store failure expected to succeed on retry.
	ErrTransient = errors.New("transient store failure")

	// ErrRejected is a store failure that will not succeed on retry.
	ErrRejected = errors.New("store rejected write")

	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation id")

	// ErrIDInUse means the id already belongs to a different reservation.
	ErrIDInUse = errors.New("reservation id already in use")
)
