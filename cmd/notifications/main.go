package main

import (
	"context"
	"errors"

	"seatsaga/internal/bootstrap"
	"seatsaga/internal/notifications/handler"
	"seatsaga/internal/notifications/service"
	"seatsaga/pkg/app"
	"seatsaga/pkg/config"
	"seatsaga/pkg/contracts"
	"seatsaga/pkg/fault"
	"seatsaga/pkg/kafka"
	kafka_middleware "seatsaga/pkg/kafka/middleware"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifications service")

	application := app.NewApplication(cfg)

	publisher, closePublisher := bootstrap.Publisher(cfg)
	application.OnShutdown(closePublisher)

	profile := fault.NewProfile("notifications")
	notificationService := service.NewNotificationService(publisher, profile, cfg.Log)

	if cfg.NotifierBackend == config.BackendKafka {
		application.OnShutdown(startDelivery(cfg))
	}

	application.SetApp(contracts.Handlers{
		handler.NewNotificationHandler(notificationService, cfg.Log),
		fault.NewHandler(cfg.Log, profile),
	}, bootstrap.Checks(cfg)...)
	application.Run()
}

// startDelivery consumes the notification topic in the background and
// returns the function that stops it.
func startDelivery(cfg *config.Config) func() {
	topic := cfg.KafkaNotificationTopic
	consumer, err := kafka.NewConsumer(cfg.Kafka, topic, cfg.Kafka.DLQTopic(topic), service.DeliveryHandler(cfg.Log), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err, "topic", topic)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		cfg.Log.Info("Kafka delivery consumer started", "topic", topic, "group", cfg.Kafka.ConsumerGroupID)
		err := consumer.Start(ctx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, kafka.ErrConsumerClosed) {
			cfg.Log.Error("Kafka delivery consumer stopped", "error", err)
		}
	}()

	return func() {
		cancel()
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	}
}
