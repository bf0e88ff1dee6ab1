package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	notiferrors "seatsaga/internal/notifications/errors"
	"seatsaga/pkg/fault"
	"seatsaga/pkg/kafka"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/model"
)

type NotificationService struct {
	publisher Publisher
	profile   *fault.Profile
	log       *logger.Logger
}

func NewNotificationService(publisher Publisher, profile *fault.Profile, log *logger.Logger) *NotificationService {
	if profile == nil {
		profile = fault.NewProfile("notifications")
	}
	if publisher == nil {
		publisher = NewLogPublisher(log)
	}
	return &NotificationService{publisher: publisher, profile: profile, log: log}
}

// Send publishes a confirmation for a reservation. The crash switch makes the
// service report itself down; the message is not published in that case.
func (s *NotificationService) Send(ctx context.Context, n model.Notification) (model.NotificationResult, error) {
	if n.ReservationID == "" || n.UserID == "" {
		return model.NotificationResult{}, fmt.Errorf("%w: reservation_id and user_id are required", notiferrors.ErrInvalidNotification)
	}

	if err := s.profile.Inject(ctx); err != nil {
		if errors.Is(err, fault.ErrInjected) || errors.Is(err, fault.ErrFlaky) {
			return model.NotificationResult{}, fmt.Errorf("%w: %w", notiferrors.ErrUnavailable, err)
		}
		return model.NotificationResult{}, err
	}

	if n.Message == "" {
		n.Message = fmt.Sprintf("Your reservation of %d seat(s) for %s is confirmed.", n.Quantity, n.EventID)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	details, err := s.publisher.Publish(ctx, n)
	if err != nil {
		s.log.Warn("Failed to publish notification",
			"reservation_id", n.ReservationID,
			"error", err,
		)
		return model.NotificationResult{}, fmt.Errorf("%w: %w", notiferrors.ErrPublishFailed, err)
	}

	return model.NotificationResult{Sent: true, Details: details}, nil
}

func (s *NotificationService) Faults() *fault.Profile {
	return s.profile
}

// DeliveryHandler consumes queued notifications and performs the final
// delivery, which here is a log line standing in for an email. Undecodable
// payloads are permanent failures.
func DeliveryHandler(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var n model.Notification
		if err := msg.DecodeValue(&n); err != nil {
			return kafka.Permanent(fmt.Errorf("%w: %w", notiferrors.ErrInvalidNotification, err))
		}
		if n.ReservationID == "" {
			return kafka.Permanent(fmt.Errorf("%w: missing reservation_id", notiferrors.ErrInvalidNotification))
		}

		log.Info("Notification delivered",
			"reservation_id", n.ReservationID,
			"user_id", n.UserID,
			"event_id", n.EventID,
			"email", n.Email,
			"message", n.Message,
			"event_id_header", msg.GetEventID(),
			"retry_count", msg.GetRetryCount(),
		)
		return nil
	}
}
