package kafka_middleware

import (
	"context"
	"time"

	"seatsaga/pkg/kafka"
	"seatsaga/pkg/metrics"
)

func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		metrics.RecordKafkaMessage(metrics.DirectionPublish, msg.Topic, err == nil, time.Since(start))
		return err
	}
}

func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		metrics.RecordKafkaMessage(metrics.DirectionConsume, msg.Topic, err == nil, time.Since(start))
		return err
	}
}
