package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	reserrors "seatsaga/internal/reservations/errors"
	"seatsaga/pkg/fault"
	"seatsaga/pkg/model"
)

// ReservationRepository is the durable store of confirmed reservations.
// Save is idempotent on the reservation id: writing the same record again
// succeeds without changing it, while a different record under a stored id
// is rejected with ErrIDInUse.
type ReservationRepository interface {
	Save(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	Count(ctx context.Context) (int64, error)
}

func IsTransient(err error) bool {
	return errors.Is(err, reserrors.ErrTransient)
}

// sameReservation reports whether stored and incoming describe one
// reservation, which is the case for a repeated write of the same saga.
func sameReservation(stored, incoming *model.Reservation) bool {
	return stored.UserID == incoming.UserID &&
		stored.EventID == incoming.EventID &&
		stored.Quantity == incoming.Quantity &&
		stored.PaymentID == incoming.PaymentID
}

func idInUse(id string) error {
	return fmt.Errorf("%w: %w: %s", reserrors.ErrRejected, reserrors.ErrIDInUse, id)
}

type memoryReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]model.Reservation
}

func NewMemoryReservationRepository() ReservationRepository {
	return &memoryReservationRepository{reservations: make(map[string]model.Reservation)}
}

func (r *memoryReservationRepository) Save(ctx context.Context, reservation *model.Reservation) error {
	if reservation == nil || reservation.ID == "" {
		return fmt.Errorf("%w: %w", reserrors.ErrRejected, reserrors.ErrInvalidID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, exists := r.reservations[reservation.ID]; exists {
		if !sameReservation(&stored, reservation) {
			return idInUse(reservation.ID)
		}
		return nil
	}
	r.reservations[reservation.ID] = *reservation
	return nil
}

func (r *memoryReservationRepository) FindByID(_ context.Context, id string) (*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, reserrors.ErrNotFound
	}
	return &reservation, nil
}

func (r *memoryReservationRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.reservations)), nil
}

// faultyReservationRepository applies the store's fault profile before each
// write: the flaky rate produces transient failures, the crash switch a
// rejection.
type faultyReservationRepository struct {
	next    ReservationRepository
	profile *fault.Profile
}

func WithFaults(next ReservationRepository, profile *fault.Profile) ReservationRepository {
	if profile == nil {
		return next
	}
	return &faultyReservationRepository{next: next, profile: profile}
}

func (r *faultyReservationRepository) Save(ctx context.Context, reservation *model.Reservation) error {
	if err := r.profile.Inject(ctx); err != nil {
		switch {
		case errors.Is(err, fault.ErrFlaky):
			return fmt.Errorf("%w: %w", reserrors.ErrTransient, err)
		case errors.Is(err, fault.ErrInjected):
			return fmt.Errorf("%w: %w", reserrors.ErrRejected, err)
		default:
			return err
		}
	}
	return r.next.Save(ctx, reservation)
}

func (r *faultyReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	return r.next.FindByID(ctx, id)
}

func (r *faultyReservationRepository) Count(ctx context.Context) (int64, error) {
	return r.next.Count(ctx)
}
