package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	inverrors "seatsaga/internal/inventory/errors"
)

func TestMemoryLedger_Reserve(t *testing.T) {
	tests := []struct {
		name          string
		seats         int
		quantity      int
		wantRemaining int
		wantErr       error
	}{
		{"exact amount", 5, 5, 0, nil},
		{"partial", 5, 2, 3, nil},
		{"too many", 3, 4, 3, inverrors.ErrInsufficientInventory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ledger := NewMemoryLedger(map[string]int{"concert-01": tt.seats})

			remaining, err := ledger.Reserve(ctx, "concert-01", tt.quantity)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Reserve() error = %v, want %v", err, tt.wantErr)
			}
			if remaining != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", remaining, tt.wantRemaining)
			}

			seats, _ := ledger.Snapshot(ctx)
			if seats["concert-01"] != tt.wantRemaining {
				t.Errorf("ledger holds %d, want %d", seats["concert-01"], tt.wantRemaining)
			}
		})
	}
}

func TestMemoryLedger_UnknownEvent(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger(map[string]int{"concert-01": 5})

	if _, err := ledger.Reserve(ctx, "concert-99", 1); !errors.Is(err, inverrors.ErrInsufficientInventory) {
		t.Errorf("reserve of unknown event should be insufficient, got %v", err)
	}
	if _, err := ledger.Release(ctx, "concert-99", 1); !errors.Is(err, inverrors.ErrUnknownResource) {
		t.Errorf("release of unknown event should be rejected, got %v", err)
	}

	seats, _ := ledger.Snapshot(ctx)
	if _, ok := seats["concert-99"]; ok {
		t.Errorf("unknown event must not be created")
	}
}

func TestMemoryLedger_ReleaseRestoresCount(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger(map[string]int{"concert-01": 5})

	if _, err := ledger.Reserve(ctx, "concert-01", 2); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	remaining, err := ledger.Release(ctx, "concert-01", 2)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if remaining != 5 {
		t.Errorf("remaining = %d after compensation, want 5", remaining)
	}
}

func TestMemoryLedger_ConcurrentReservationsNeverOversell(t *testing.T) {
	const seats = 10
	const callers = 100

	ctx := context.Background()
	ledger := NewMemoryLedger(map[string]int{"concert-01": seats})

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Reserve(ctx, "concert-01", 1); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	if successes.Load() != seats {
		t.Errorf("successes = %d, want %d", successes.Load(), seats)
	}
	snapshot, _ := ledger.Snapshot(ctx)
	if snapshot["concert-01"] != 0 {
		t.Errorf("remaining = %d, want 0", snapshot["concert-01"])
	}
}

func TestMemoryLedger_LastSeatHasOneWinner(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger(map[string]int{"concert-02": 1})

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		start     = make(chan struct{})
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := ledger.Reserve(ctx, "concert-02", 1); err == nil {
				successes.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if successes.Load() != 1 {
		t.Errorf("expected exactly one success, got %d", successes.Load())
	}
}

func TestMemoryLedger_SeedsAreCopied(t *testing.T) {
	seeds := map[string]int{"concert-01": 5}
	ledger := NewMemoryLedger(seeds)
	_, _ = ledger.Reserve(context.Background(), "concert-01", 1)

	if seeds["concert-01"] != 5 {
		t.Errorf("ledger must not mutate its seed map")
	}
}
