package service

import (
	"context"
	"fmt"

	"seatsaga/pkg/kafka"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/model"
)

const (
	EventTypeReservationConfirmed = "reservation.confirmed"
	SchemaVersion                 = "1"
)

// Publisher hands a notification to a transport and describes where it went.
type Publisher interface {
	Publish(ctx context.Context, n model.Notification) (string, error)
}

// LogPublisher writes the notification to the service log in place of an
// email gateway.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, n model.Notification) (string, error) {
	p.log.Info("Notification sent",
		"reservation_id", n.ReservationID,
		"user_id", n.UserID,
		"event_id", n.EventID,
		"email", n.Email,
		"message", n.Message,
	)
	return fmt.Sprintf("notification logged for user %s", n.UserID), nil
}

type messageProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Topic() string
}

// KafkaPublisher queues notifications on a topic keyed by reservation id.
type KafkaPublisher struct {
	producer messageProducer
	source   string
}

func NewKafkaPublisher(producer messageProducer, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n model.Notification) (string, error) {
	msg, err := kafka.NewMessage().
		WithKey(n.ReservationID).
		WithValue(n).
		WithEventType(EventTypeReservationConfirmed).
		WithCorrelationID(n.ReservationID).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()
	if err != nil {
		return "", err
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return "", err
	}
	return fmt.Sprintf("queued on %s", p.producer.Topic()), nil
}
