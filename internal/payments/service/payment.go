package service

import (
	"context"
	"errors"
	"fmt"

	payerrors "seatsaga/internal/payments/errors"
	"seatsaga/pkg/fault"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/model"

	"github.com/google/uuid"
)

const StatusApproved = "approved"

// PaymentService is a stand-in processor: every valid charge is approved
// unless a fault is switched on.
type PaymentService struct {
	profile *fault.Profile
	log     *logger.Logger
}

func NewPaymentService(profile *fault.Profile, log *logger.Logger) *PaymentService {
	if profile == nil {
		profile = fault.NewProfile("payments")
	}
	return &PaymentService{profile: profile, log: log}
}

func (s *PaymentService) Charge(ctx context.Context, charge model.Charge) (*model.PaymentReceipt, error) {
	if charge.Quantity <= 0 || charge.Price < 0 {
		return nil, fmt.Errorf("%w: quantity %d, price %.2f", payerrors.ErrInvalidCharge, charge.Quantity, charge.Price)
	}

	if err := s.profile.Inject(ctx); err != nil {
		if errors.Is(err, fault.ErrInjected) || errors.Is(err, fault.ErrFlaky) {
			s.log.Warn("Payment declined by injected fault",
				"reservation_id", charge.ReservationID,
				"user_id", charge.UserID,
				"error", err,
			)
			return nil, fmt.Errorf("%w: %w", payerrors.ErrDeclined, err)
		}
		return nil, err
	}

	receipt := &model.PaymentReceipt{
		Status:    StatusApproved,
		PaymentID: uuid.NewString(),
		Amount:    charge.Amount(),
	}

	s.log.Info("Payment approved",
		"reservation_id", charge.ReservationID,
		"user_id", charge.UserID,
		"event_id", charge.EventID,
		"payment_id", receipt.PaymentID,
		"amount", receipt.Amount,
	)
	return receipt, nil
}

func (s *PaymentService) Faults() *fault.Profile {
	return s.profile
}
