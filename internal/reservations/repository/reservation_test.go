package repository

import (
	"context"
	"errors"
	"testing"

	reserrors "seatsaga/internal/reservations/errors"
	"seatsaga/pkg/fault"
	"seatsaga/pkg/model"
)

func reservation(id string) *model.Reservation {
	return &model.Reservation{ID: id, UserID: "u-1", EventID: "concert-01", Quantity: 1, Status: model.ReservationStatusConfirmed}
}

func TestMemoryRepository_SaveIsIdempotent(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()

	first := reservation("saga-1")
	first.PaymentID = "pay-1"
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	again := *first
	if err := repo.Save(ctx, &again); err != nil {
		t.Fatalf("repeated Save() error = %v", err)
	}

	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestMemoryRepository_ReusedIDIsRejected(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *model.Reservation)
	}{
		{"other user", func(r *model.Reservation) { r.UserID = "u-2" }},
		{"other event", func(r *model.Reservation) { r.EventID = "concert-02" }},
		{"other quantity", func(r *model.Reservation) { r.Quantity = 3 }},
		{"other payment", func(r *model.Reservation) { r.PaymentID = "pay-2" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryReservationRepository()
			ctx := context.Background()

			first := reservation("saga-1")
			first.PaymentID = "pay-1"
			if err := repo.Save(ctx, first); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			second := *first
			tt.modify(&second)
			err := repo.Save(ctx, &second)
			if !errors.Is(err, reserrors.ErrIDInUse) || !errors.Is(err, reserrors.ErrRejected) {
				t.Fatalf("expected a rejected ErrIDInUse, got %v", err)
			}
			if IsTransient(err) {
				t.Errorf("a reused id must not be retried")
			}

			got, _ := repo.FindByID(ctx, "saga-1")
			if *got != *first {
				t.Errorf("stored record changed: %+v", got)
			}
		})
	}
}

func TestMemoryRepository_Errors(t *testing.T) {
	repo := NewMemoryReservationRepository()

	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, reserrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Save(context.Background(), &model.Reservation{}); !errors.Is(err, reserrors.ErrRejected) {
		t.Errorf("expected ErrRejected for empty id, got %v", err)
	}
}

func TestWithFaults(t *testing.T) {
	tests := []struct {
		name          string
		crash         bool
		flaky         float64
		wantTransient bool
		wantRejected  bool
	}{
		{"no faults", false, 0, false, false},
		{"flaky is transient", false, 1, true, false},
		{"crash is rejected", true, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := fault.NewProfile("store")
			profile.Crash.Set(tt.crash)
			profile.Flaky.Set(tt.flaky)
			inner := NewMemoryReservationRepository()
			repo := WithFaults(inner, profile)

			err := repo.Save(context.Background(), reservation("saga-1"))

			if IsTransient(err) != tt.wantTransient {
				t.Errorf("IsTransient(%v) = %v, want %v", err, IsTransient(err), tt.wantTransient)
			}
			if errors.Is(err, reserrors.ErrRejected) != tt.wantRejected {
				t.Errorf("rejected = %v, want %v", errors.Is(err, reserrors.ErrRejected), tt.wantRejected)
			}

			n, _ := inner.Count(context.Background())
			wantStored := int64(0)
			if !tt.wantTransient && !tt.wantRejected {
				wantStored = 1
			}
			if n != wantStored {
				t.Errorf("stored %d records, want %d", n, wantStored)
			}
		})
	}
}

func TestWithFaults_NilProfileIsPassthrough(t *testing.T) {
	inner := NewMemoryReservationRepository()
	if WithFaults(inner, nil) != inner {
		t.Errorf("nil profile should return the inner repository")
	}
}
