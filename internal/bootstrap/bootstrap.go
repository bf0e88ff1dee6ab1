// Package bootstrap builds the backends a service was configured with.
// Every builder exits the process through log.Fatal when a backend cannot be
// reached at startup.
package bootstrap

import (
	"context"

	"seatsaga/internal/health"
	invrepo "seatsaga/internal/inventory/repository"
	notifservice "seatsaga/internal/notifications/service"
	resrepo "seatsaga/internal/reservations/repository"
	"seatsaga/pkg/config"
	"seatsaga/pkg/kafka"
	kafka_middleware "seatsaga/pkg/kafka/middleware"
)

// Ledger returns the inventory ledger. The redis backend is seeded with any
// event it does not hold yet.
func Ledger(cfg *config.Config) invrepo.LedgerRepository {
	if cfg.LedgerBackend != config.BackendRedis {
		cfg.Log.Info("Using in-memory inventory ledger", "events", len(cfg.Seeds))
		return invrepo.NewMemoryLedger(cfg.Seeds)
	}

	if cfg.Client.Redis == nil {
		cfg.SetRedis()
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RedisConnTimeout)
	defer cancel()
	if err := invrepo.Seed(ctx, cfg.Client.Redis, invrepo.DefaultLedgerKey, cfg.Seeds); err != nil {
		cfg.Log.Fatal("Failed to seed inventory", "error", err)
	}
	cfg.Log.Info("Using redis inventory ledger", "addr", cfg.RedisAddr, "events", len(cfg.Seeds))
	return invrepo.NewRedisLedger(cfg.Client.Redis, invrepo.DefaultLedgerKey)
}

// Store returns the durable reservation store before any fault decoration.
func Store(cfg *config.Config) resrepo.ReservationRepository {
	if cfg.StoreBackend != config.BackendMongo {
		cfg.Log.Info("Using in-memory reservation store")
		return resrepo.NewMemoryReservationRepository()
	}

	if cfg.Client.Mongo == nil {
		cfg.SetMongo()
	}
	cfg.Log.Info("Using mongo reservation store", "database", cfg.MongoDatabaseName)
	return resrepo.NewMongoReservationRepository(cfg.Client.Mongo, cfg.MongoDatabaseName)
}

// Publisher returns the notification transport and a function that releases
// it on shutdown.
func Publisher(cfg *config.Config) (notifservice.Publisher, func()) {
	if cfg.NotifierBackend != config.BackendKafka {
		cfg.Log.Info("Notifications are written to the service log")
		return notifservice.NewLogPublisher(cfg.Log), func() {}
	}

	topic := cfg.KafkaNotificationTopic
	producer, err := kafka.NewProducer(cfg.Kafka, topic, cfg.Kafka.DLQTopic(topic), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err, "topic", topic)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware())

	cfg.Log.Info("Notifications are published to Kafka", "topic", topic, "brokers", cfg.Kafka.Brokers)
	return notifservice.NewKafkaPublisher(producer, cfg.Service), func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}

// Checks returns a readiness probe for every backend client that was opened.
func Checks(cfg *config.Config) []health.Check {
	var checks []health.Check
	if cfg.Client.Mongo != nil {
		checks = append(checks, health.MongoCheck(cfg.Client.Mongo))
	}
	if cfg.Client.Redis != nil {
		checks = append(checks, health.RedisCheck(cfg.Client.Redis))
	}
	return checks
}
