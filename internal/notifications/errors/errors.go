package errors

import "errors"

var (
	ErrUnavailable = errors.New("notification service unavailable")

	ErrInvalidNotification = errors.New("invalid notification")

	ErrPublishFailed = errors.New("notification publish failed")
)
