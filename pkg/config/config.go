package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"seatsaga/pkg/client"
	kafka_config "seatsaga/pkg/kafka/config"
	"seatsaga/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port     string
	LogLevel string

	MaxInFlight int

	InventoryTimeout time.Duration
	PaymentTimeout   time.Duration
	StoreTimeout     time.Duration
	StoreAttempts    int
	StoreRetryDelay  time.Duration
	NotifyTimeout    time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SeedFile string
	Seeds    map[string]int

	LedgerBackend    string
	RedisAddr        string
	RedisConnTimeout time.Duration

	StoreBackend string

	NotifierBackend        string
	Kafka                  *kafka_config.Config
	KafkaNotificationTopic string

	InventoryURL     string
	PaymentsURL      string
	NotificationsURL string

	Service string
	Log     *logger.Logger
	Client  *client.Client
}

func Load(serviceName string) *Config {
	cfg := FromEnv(serviceName)

	if cfg.SeedFile != "" {
		seeds, err := LoadSeeds(cfg.SeedFile)
		if err != nil {
			cfg.Log.Fatal("Failed to load inventory seeds", "error", err, "path", cfg.SeedFile)
		}
		cfg.Seeds = seeds
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv reads every setting from the environment without validating it.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port:     getEnvStr(EnvPort, DefaultPort),
		LogLevel: getEnvStr(EnvLogLevel, DefaultLogLevel),

		MaxInFlight: getEnvNum(EnvMaxInFlight, DefaultMaxInFlight),

		InventoryTimeout: getEnvDuration(EnvInventoryTimeout, DefaultInventoryTimeout),
		PaymentTimeout:   getEnvDuration(EnvPaymentTimeout, DefaultPaymentTimeout),
		StoreTimeout:     getEnvDuration(EnvStoreTimeout, DefaultStoreTimeout),
		StoreAttempts:    getEnvNum(EnvStoreAttempts, DefaultStoreAttempts),
		StoreRetryDelay:  getEnvDuration(EnvStoreRetryDelay, DefaultStoreRetryDelay),
		NotifyTimeout:    getEnvDuration(EnvNotifyTimeout, DefaultNotifyTimeout),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SeedFile: getEnvStr(EnvSeedFile, ""),
		Seeds:    DefaultSeeds(),

		LedgerBackend:    strings.ToLower(getEnvStr(EnvLedgerBackend, BackendMemory)),
		RedisAddr:        getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisConnTimeout: getEnvDuration(EnvRedisConnTimeout, DefaultRedisConnTimeout),

		StoreBackend: strings.ToLower(getEnvStr(EnvStoreBackend, BackendMemory)),

		NotifierBackend:        strings.ToLower(getEnvStr(EnvNotifierBackend, BackendLog)),
		Kafka:                  kafka_config.Load(),
		KafkaNotificationTopic: getEnvStr(EnvKafkaNotificationTopic, DefaultKafkaNotificationTopic),

		InventoryURL:     getEnvStr(EnvInventoryURL, ""),
		PaymentsURL:      getEnvStr(EnvPaymentsURL, ""),
		NotificationsURL: getEnvStr(EnvNotificationsURL, ""),

		Service: serviceName,
		Client:  client.NewClient(),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisConnTimeout)
}

// SagaBudget is the longest a single reservation can take when every step
// runs to its timeout. The last step is either the notification or the
// compensating release, whichever is slower.
func (cfg *Config) SagaBudget() time.Duration {
	attempts := max(cfg.StoreAttempts, 1)
	persist := time.Duration(attempts)*cfg.StoreTimeout + time.Duration(attempts-1)*cfg.StoreRetryDelay
	return cfg.InventoryTimeout + cfg.PaymentTimeout + persist + max(cfg.NotifyTimeout, cfg.InventoryTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MaxInFlight <= 0 {
		errors = append(errors, fmt.Sprintf("MaxInFlight must be positive, got: %d", cfg.MaxInFlight))
	}
	if cfg.InventoryTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("InventoryTimeout must be positive, got: %s", cfg.InventoryTimeout))
	}
	if cfg.PaymentTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("PaymentTimeout must be positive, got: %s", cfg.PaymentTimeout))
	}
	if cfg.StoreTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("StoreTimeout must be positive, got: %s", cfg.StoreTimeout))
	}
	if cfg.StoreAttempts < 1 {
		errors = append(errors, fmt.Sprintf("StoreAttempts must be at least 1, got: %d", cfg.StoreAttempts))
	}
	if cfg.StoreRetryDelay < 0 {
		errors = append(errors, fmt.Sprintf("StoreRetryDelay cannot be negative, got: %s", cfg.StoreRetryDelay))
	}
	if cfg.NotifyTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyTimeout must be positive, got: %s", cfg.NotifyTimeout))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	for key, seats := range cfg.Seeds {
		if seats < 0 {
			errors = append(errors, fmt.Sprintf("Seed for %s cannot be negative, got: %d", key, seats))
		}
	}

	switch cfg.LedgerBackend {
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisAddr == "" {
			errors = append(errors, "RedisAddr cannot be empty when LedgerBackend is redis")
		}
		if cfg.RedisConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("RedisConnTimeout must be positive, got: %s", cfg.RedisConnTimeout))
		}
	default:
		errors = append(errors, fmt.Sprintf("LedgerBackend must be one of memory, redis, got: %s", cfg.LedgerBackend))
	}

	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	default:
		errors = append(errors, fmt.Sprintf("StoreBackend must be one of memory, mongo, got: %s", cfg.StoreBackend))
	}

	switch cfg.NotifierBackend {
	case BackendLog:
	case BackendKafka:
		if cfg.Kafka == nil {
			errors = append(errors, "Kafka settings are required when NotifierBackend is kafka")
		} else if err := cfg.Kafka.Validate(); err != nil {
			errors = append(errors, strings.TrimSpace(err.Error()))
		}
		if cfg.KafkaNotificationTopic == "" {
			errors = append(errors, "KafkaNotificationTopic cannot be empty when NotifierBackend is kafka")
		}
	default:
		errors = append(errors, fmt.Sprintf("NotifierBackend must be one of log, kafka, got: %s", cfg.NotifierBackend))
	}

	for name, raw := range map[string]string{
		"InventoryURL":     cfg.InventoryURL,
		"PaymentsURL":      cfg.PaymentsURL,
		"NotificationsURL": cfg.NotificationsURL,
	} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, fmt.Sprintf("%s must be an absolute http(s) URL, got: %s", name, raw))
		}
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"max_inflight", cfg.MaxInFlight,
		"inventory_timeout", cfg.InventoryTimeout,
		"payment_timeout", cfg.PaymentTimeout,
		"store_timeout", cfg.StoreTimeout,
		"store_attempts", cfg.StoreAttempts,
		"store_retry_delay", cfg.StoreRetryDelay,
		"notify_timeout", cfg.NotifyTimeout,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"seed_file", cfg.SeedFile,
		"seeded_events", len(cfg.Seeds),
		"ledger_backend", cfg.LedgerBackend,
		"redis_addr", cfg.RedisAddr,
		"redis_conn_timeout", cfg.RedisConnTimeout,
		"store_backend", cfg.StoreBackend,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"notifier_backend", cfg.NotifierBackend,
		"kafka_notification_topic", cfg.KafkaNotificationTopic,
		"inventory_url", cfg.InventoryURL,
		"payments_url", cfg.PaymentsURL,
		"notifications_url", cfg.NotificationsURL,
	)

	if cfg.NotifierBackend == BackendKafka && cfg.Kafka != nil {
		cfg.Kafka.LogConfiguration(cfg.Log.Info)
	}

	if budget := cfg.SagaBudget(); cfg.WriteTimeout < budget || cfg.RequestTimeout < budget {
		cfg.Log.Warn("Server timeouts are shorter than the worst-case reservation; slow sagas may lose their response",
			"write_timeout", cfg.WriteTimeout,
			"request_timeout", cfg.RequestTimeout,
			"saga_budget", budget,
		)
	}
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}
