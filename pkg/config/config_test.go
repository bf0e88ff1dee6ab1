package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	kafka_config "seatsaga/pkg/kafka/config"
)

func validConfig() *Config {
	return &Config{
		Port:             DefaultPort,
		MaxInFlight:      DefaultMaxInFlight,
		InventoryTimeout: DefaultInventoryTimeout,
		PaymentTimeout:   DefaultPaymentTimeout,
		StoreTimeout:     DefaultStoreTimeout,
		StoreAttempts:    DefaultStoreAttempts,
		StoreRetryDelay:  DefaultStoreRetryDelay,
		NotifyTimeout:    DefaultNotifyTimeout,
		RequestTimeout:   DefaultRequestTimeout,
		IdempotencyTTL:   DefaultIdempotencyTTL,
		MaxRequestSize:   DefaultMaxRequestSize,
		ReadTimeout:      DefaultReadTimeout,
		WriteTimeout:     DefaultWriteTimeout,
		IdleTimeout:      DefaultIdleTimeout,
		ShutdownTimeout:  DefaultShutdownTimeout,
		Seeds:            DefaultSeeds(),
		LedgerBackend:    BackendMemory,
		StoreBackend:     BackendMemory,
		NotifierBackend:  BackendLog,
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv("test")

	if cfg.MaxInFlight != DefaultMaxInFlight {
		t.Errorf("MaxInFlight = %d, want %d", cfg.MaxInFlight, DefaultMaxInFlight)
	}
	if cfg.PaymentTimeout != DefaultPaymentTimeout {
		t.Errorf("PaymentTimeout = %v, want %v", cfg.PaymentTimeout, DefaultPaymentTimeout)
	}
	if cfg.Seeds["concert-01"] != 5 || cfg.Seeds["concert-02"] != 3 {
		t.Errorf("unexpected default seeds: %v", cfg.Seeds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvMaxInFlight, "12")
	t.Setenv(EnvStoreRetryDelay, "50ms")
	t.Setenv(kafka_config.EnvKafkaBrokers, "kafka-1:9092, kafka-2:9092")
	t.Setenv(EnvLedgerBackend, "REDIS")
	t.Setenv(EnvStoreAttempts, "not-a-number")
	t.Setenv(EnvRedisConnTimeout, "750ms")

	cfg := FromEnv("test")

	if cfg.MaxInFlight != 12 {
		t.Errorf("MaxInFlight = %d, want 12", cfg.MaxInFlight)
	}
	if cfg.StoreRetryDelay != 50*time.Millisecond {
		t.Errorf("StoreRetryDelay = %v, want 50ms", cfg.StoreRetryDelay)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if cfg.LedgerBackend != BackendRedis {
		t.Errorf("LedgerBackend = %s, want redis", cfg.LedgerBackend)
	}
	if cfg.RedisConnTimeout != 750*time.Millisecond {
		t.Errorf("RedisConnTimeout = %v, want 750ms", cfg.RedisConnTimeout)
	}
	if cfg.StoreAttempts != DefaultStoreAttempts {
		t.Errorf("unparseable value should fall back, got %d", cfg.StoreAttempts)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero capacity", func(c *Config) { c.MaxInFlight = 0 }, "MaxInFlight"},
		{"bad port", func(c *Config) { c.Port = "99999" }, "Port"},
		{"no store attempts", func(c *Config) { c.StoreAttempts = 0 }, "StoreAttempts"},
		{"negative retry delay", func(c *Config) { c.StoreRetryDelay = -time.Second }, "StoreRetryDelay"},
		{"negative seed", func(c *Config) { c.Seeds["concert-01"] = -1 }, "Seed for concert-01"},
		{"unknown ledger", func(c *Config) { c.LedgerBackend = "etcd" }, "LedgerBackend"},
		{"redis without dial timeout", func(c *Config) {
			c.LedgerBackend = BackendRedis
			c.RedisConnTimeout = 0
		}, "RedisConnTimeout"},
		{"mongo without uri", func(c *Config) {
			c.StoreBackend = BackendMongo
			c.MongoDatabaseName = "x"
			c.MongoConnTimeout = time.Second
		}, "MongoURI"},
		{"kafka without topic", func(c *Config) {
			c.NotifierBackend = BackendKafka
			c.Kafka = kafka_config.Load()
		}, "KafkaNotificationTopic"},
		{"kafka without settings", func(c *Config) {
			c.NotifierBackend = BackendKafka
			c.KafkaNotificationTopic = "reservation-notifications"
		}, "Kafka settings"},
		{"relative collaborator url", func(c *Config) { c.PaymentsURL = "payments:8080" }, "PaymentsURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSagaBudget(t *testing.T) {
	cfg := validConfig()
	// 2s inventory + 3s payment + 3x1s store + 2x300ms delay + max(2s notify, 2s release)
	want := 2*time.Second + 3*time.Second + 3*time.Second + 600*time.Millisecond + 2*time.Second
	if got := cfg.SagaBudget(); got != want {
		t.Errorf("SagaBudget() = %v, want %v", got, want)
	}
}

func TestLoadSeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.yaml")
	content := "events:\n  concert-01: 5\n  festival-07: 120\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	seeds, err := LoadSeeds(path)
	if err != nil {
		t.Fatalf("LoadSeeds() error = %v", err)
	}
	if seeds["festival-07"] != 120 {
		t.Errorf("expected festival-07 = 120, got %d", seeds["festival-07"])
	}
}

func TestParseSeeds_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", "events: {}\n"},
		{"negative", "events:\n  concert-01: -2\n"},
		{"malformed", "events: [1, 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSeeds([]byte(tt.data)); err == nil {
				t.Errorf("expected error for %q", tt.data)
			}
		})
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:secret@db:27017")
	if strings.Contains(got, "secret") {
		t.Errorf("credentials were not redacted: %s", got)
	}
}
