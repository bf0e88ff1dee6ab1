package kafka

import (
	"errors"
	"fmt"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")

	ErrConsumerClosed = errors.New("kafka consumer is closed")

	ErrInvalidMessage = errors.New("invalid message")

	ErrEmptyKey = errors.New("message key cannot be empty")

	ErrEmptyValue = errors.New("message value cannot be empty")

	ErrPermanentFailure = errors.New("permanent failure")
)

// Permanent marks err as not worth retrying; the consumer sends the message
// straight to the dead letter topic.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanentFailure, err)
}

func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanentFailure)
}
