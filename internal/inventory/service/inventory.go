package service

import (
	"context"
	"errors"
	"fmt"

	inverrors "seatsaga/internal/inventory/errors"
	"seatsaga/internal/inventory/repository"
	"seatsaga/pkg/fault"
	"seatsaga/pkg/logger"
)

type InventoryService struct {
	repo    repository.LedgerRepository
	profile *fault.Profile
	log     *logger.Logger
}

func NewInventoryService(repo repository.LedgerRepository, profile *fault.Profile, log *logger.Logger) *InventoryService {
	if profile == nil {
		profile = fault.NewProfile("inventory")
	}
	return &InventoryService{
		repo:    repo,
		profile: profile,
		log:     log,
	}
}

// Reserve takes quantity seats of eventID and returns the seats left.
// An insufficient count leaves the ledger untouched.
func (s *InventoryService) Reserve(ctx context.Context, eventID string, quantity int) (int, error) {
	if err := validate(eventID, quantity); err != nil {
		return 0, err
	}
	if err := s.injectFault(ctx, "reserve", eventID); err != nil {
		return 0, err
	}

	remaining, err := s.repo.Reserve(ctx, eventID, quantity)
	if err != nil {
		if errors.Is(err, inverrors.ErrInsufficientInventory) {
			s.log.Info("Reservation refused: not enough seats",
				"event_id", eventID,
				"quantity", quantity,
				"available", remaining,
			)
		} else {
			s.log.Error("Failed to reserve seats", "event_id", eventID, "quantity", quantity, "error", err)
		}
		return 0, err
	}

	s.log.Info("Seats reserved", "event_id", eventID, "quantity", quantity, "remaining", remaining)
	return remaining, nil
}

// Release returns quantity seats to eventID. It is not deduplicated: each
// call adds seats back.
func (s *InventoryService) Release(ctx context.Context, eventID string, quantity int) (int, error) {
	if err := validate(eventID, quantity); err != nil {
		return 0, err
	}
	if err := s.injectFault(ctx, "release", eventID); err != nil {
		return 0, err
	}

	remaining, err := s.repo.Release(ctx, eventID, quantity)
	if err != nil {
		s.log.Error("Failed to release seats", "event_id", eventID, "quantity", quantity, "error", err)
		return 0, err
	}

	s.log.Info("Seats released", "event_id", eventID, "quantity", quantity, "remaining", remaining)
	return remaining, nil
}

func (s *InventoryService) Reset(ctx context.Context, eventID string, seats int) error {
	if eventID == "" {
		return inverrors.ErrInvalidResource
	}
	if seats < 0 {
		return fmt.Errorf("%w: seats cannot be negative", inverrors.ErrInvalidQuantity)
	}
	if err := s.repo.Reset(ctx, eventID, seats); err != nil {
		return err
	}
	s.log.Warn("Inventory reset", "event_id", eventID, "seats", seats)
	return nil
}

func (s *InventoryService) Snapshot(ctx context.Context) (map[string]int, error) {
	return s.repo.Snapshot(ctx)
}

func (s *InventoryService) Faults() *fault.Profile {
	return s.profile
}

func (s *InventoryService) injectFault(ctx context.Context, op, eventID string) error {
	err := s.profile.Inject(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, fault.ErrInjected) || errors.Is(err, fault.ErrFlaky) {
		s.log.Warn("Inventory fault injected", "operation", op, "event_id", eventID, "error", err)
		return fmt.Errorf("%w: %w", inverrors.ErrUnavailable, err)
	}
	return err
}

func validate(eventID string, quantity int) error {
	if eventID == "" {
		return inverrors.ErrInvalidResource
	}
	if quantity <= 0 {
		return fmt.Errorf("%w, got %d", inverrors.ErrInvalidQuantity, quantity)
	}
	return nil
}
