package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "seatsaga"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultMaxInFlight = 5

	DefaultInventoryTimeout = 2 * time.Second
	DefaultPaymentTimeout   = 3 * time.Second
	DefaultStoreTimeout     = 1 * time.Second
	DefaultStoreAttempts    = 3
	DefaultStoreRetryDelay  = 300 * time.Millisecond
	DefaultNotifyTimeout    = 2 * time.Second

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRedisAddr              = "localhost:6379"
	DefaultRedisConnTimeout       = 5 * time.Second
	DefaultKafkaNotificationTopic = "reservation-notifications"

	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendLog    = "log"
	BackendKafka  = "kafka"
)

// DefaultSeeds is the inventory used when no seed file is configured.
func DefaultSeeds() map[string]int {
	return map[string]int{
		"concert-01": 5,
		"concert-02": 3,
	}
}
