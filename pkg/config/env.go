package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvMaxInFlight = "MAX_INFLIGHT"

	EnvInventoryTimeout = "INVENTORY_TIMEOUT"
	EnvPaymentTimeout   = "PAYMENT_TIMEOUT"
	EnvStoreTimeout     = "STORE_TIMEOUT"
	EnvStoreAttempts    = "STORE_ATTEMPTS"
	EnvStoreRetryDelay  = "STORE_RETRY_DELAY"
	EnvNotifyTimeout    = "NOTIFY_TIMEOUT"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSeedFile = "SEED_FILE"

	EnvLedgerBackend    = "LEDGER_BACKEND"
	EnvRedisAddr        = "REDIS_ADDR"
	EnvRedisConnTimeout = "REDIS_CONN_TIMEOUT"

	EnvStoreBackend = "STORE_BACKEND"

	EnvNotifierBackend        = "NOTIFIER_BACKEND"
	EnvKafkaNotificationTopic = "KAFKA_NOTIFICATION_TOPIC"

	EnvInventoryURL     = "INVENTORY_URL"
	EnvPaymentsURL      = "PAYMENTS_URL"
	EnvNotificationsURL = "NOTIFICATIONS_URL"
)
