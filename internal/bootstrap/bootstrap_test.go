package bootstrap

import (
	"context"
	"testing"

	notifservice "seatsaga/internal/notifications/service"
	"seatsaga/pkg/config"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/model"
)

func memoryConfig() *config.Config {
	cfg := config.FromEnv("bootstrap-test")
	cfg.Log = logger.Discard()
	cfg.LedgerBackend = config.BackendMemory
	cfg.StoreBackend = config.BackendMemory
	cfg.NotifierBackend = config.BackendLog
	cfg.Seeds = map[string]int{"A": 2}
	return cfg
}

func TestLedger_MemoryIsSeeded(t *testing.T) {
	ledger := Ledger(memoryConfig())

	left, err := ledger.Reserve(context.Background(), "A", 2)
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if left != 0 {
		t.Errorf("expected 0 seats left, got %d", left)
	}
}

func TestStore_Memory(t *testing.T) {
	store := Store(memoryConfig())

	if err := store.Save(context.Background(), &model.Reservation{ID: "r-1", EventID: "A", Quantity: 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if n, _ := store.Count(context.Background()); n != 1 {
		t.Errorf("expected 1 stored reservation, got %d", n)
	}
}

func TestPublisher_LogBackend(t *testing.T) {
	publisher, closeFn := Publisher(memoryConfig())
	defer closeFn()

	if _, ok := publisher.(*notifservice.LogPublisher); !ok {
		t.Fatalf("expected a log publisher, got %T", publisher)
	}
}

func TestChecks_NoClients(t *testing.T) {
	if checks := Checks(memoryConfig()); len(checks) != 0 {
		t.Errorf("expected no checks without clients, got %d", len(checks))
	}
}
