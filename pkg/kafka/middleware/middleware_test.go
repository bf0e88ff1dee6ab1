package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"seatsaga/pkg/kafka"
	"seatsaga/pkg/logger"
)

func TestProducerMiddleware_PassesResultThrough(t *testing.T) {
	boom := errors.New("boom")
	msg := kafka.Message{Topic: "reservation-notifications", Key: "saga-1", Headers: map[string]string{}}

	chain := []kafka.ProducerMiddleware{
		LoggingProducerMiddleware(logger.Discard()),
		MetricsProducerMiddleware(),
	}

	for _, mw := range chain {
		called := false
		err := mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error {
			called = true
			return boom
		})
		if !called {
			t.Errorf("middleware did not call next")
		}
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	}
}

func TestConsumerMiddleware_PassesResultThrough(t *testing.T) {
	msg := kafka.Message{Topic: "reservation-notifications", Key: "saga-1", Headers: map[string]string{}}

	chain := []kafka.ConsumerMiddleware{
		LoggingConsumerMiddleware(logger.Discard()),
		MetricsConsumerMiddleware(),
	}

	for _, mw := range chain {
		err := mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error {
			return nil
		})
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	}
}
