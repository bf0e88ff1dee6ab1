package repository

import (
	"context"
	"fmt"
	"maps"
	"sync"

	inverrors "seatsaga/internal/inventory/errors"
)

// LedgerRepository stores seat counts per event. Reserve and Release are each
// atomic with respect to every other operation on the same ledger.
type LedgerRepository interface {
	Reserve(ctx context.Context, eventID string, quantity int) (int, error)
	Release(ctx context.Context, eventID string, quantity int) (int, error)
	Reset(ctx context.Context, eventID string, seats int) error
	Snapshot(ctx context.Context) (map[string]int, error)
}

type memoryLedger struct {
	mu    sync.Mutex
	seats map[string]int
}

func NewMemoryLedger(seeds map[string]int) LedgerRepository {
	seats := maps.Clone(seeds)
	if seats == nil {
		seats = make(map[string]int)
	}
	return &memoryLedger{seats: seats}
}

func (l *memoryLedger) Reserve(_ context.Context, eventID string, quantity int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	available := l.seats[eventID]
	if available < quantity {
		return available, fmt.Errorf("%w: %s has %d seats, %d requested", inverrors.ErrInsufficientInventory, eventID, available, quantity)
	}
	l.seats[eventID] = available - quantity
	return l.seats[eventID], nil
}

func (l *memoryLedger) Release(_ context.Context, eventID string, quantity int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	available, ok := l.seats[eventID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", inverrors.ErrUnknownResource, eventID)
	}
	l.seats[eventID] = available + quantity
	return l.seats[eventID], nil
}

func (l *memoryLedger) Reset(_ context.Context, eventID string, seats int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seats[eventID] = seats
	return nil
}

func (l *memoryLedger) Snapshot(_ context.Context) (map[string]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return maps.Clone(l.seats), nil
}
