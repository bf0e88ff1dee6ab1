package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	inverrors "seatsaga/internal/inventory/errors"
	reserrors "seatsaga/internal/reservations/errors"
	apperrors "seatsaga/pkg/errors"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/metrics"
	"seatsaga/pkg/model"
	"seatsaga/pkg/retry"

	"github.com/google/uuid"
)

type Ledger interface {
	Reserve(ctx context.Context, eventID string, quantity int) (int, error)
	Release(ctx context.Context, eventID string, quantity int) (int, error)
}

type PaymentGateway interface {
	Charge(ctx context.Context, charge model.Charge) (*model.PaymentReceipt, error)
}

type Store interface {
	Save(ctx context.Context, reservation *model.Reservation) error
}

type Notifier interface {
	Send(ctx context.Context, n model.Notification) (model.NotificationResult, error)
}

// Policy bounds every collaborator call. Only the store step is retried.
type Policy struct {
	InventoryTimeout time.Duration
	PaymentTimeout   time.Duration
	StoreTimeout     time.Duration
	StoreAttempts    int
	StoreRetryDelay  time.Duration
	NotifyTimeout    time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		InventoryTimeout: 2 * time.Second,
		PaymentTimeout:   3 * time.Second,
		StoreTimeout:     time.Second,
		StoreAttempts:    3,
		StoreRetryDelay:  300 * time.Millisecond,
		NotifyTimeout:    2 * time.Second,
	}
}

type Result struct {
	Reserved     bool
	Notification model.NotificationResult
	Execution    *Execution
	Err          *apperrors.AppError
}

type Orchestrator struct {
	ledger   Ledger
	payments PaymentGateway
	store    Store
	notifier Notifier
	policy   Policy
	log      *logger.Logger
}

func NewOrchestrator(ledger Ledger, payments PaymentGateway, store Store, notifier Notifier, policy Policy, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Discard()
	}
	return &Orchestrator{
		ledger:   ledger,
		payments: payments,
		store:    store,
		notifier: notifier,
		policy:   policy,
		log:      log,
	}
}

// Execute runs one reservation saga to a terminal state. Cancellation of ctx
// does not abort the saga; only the per-step timeouts do, so a client that
// disconnects never leaves inventory held.
func (o *Orchestrator) Execute(ctx context.Context, req model.ReservationRequest) *Result {
	ctx = context.WithoutCancel(ctx)

	exec := &Execution{
		ID:        req.ID,
		Request:   req,
		State:     StateStarted,
		StartedAt: time.Now(),
	}
	if exec.ID == "" {
		exec.ID = uuid.NewString()
	}
	result := &Result{Execution: exec}
	log := o.log.With("saga_id", exec.ID, "event_id", req.EventID, "user_id", req.UserID)

	func() {
		defer func() {
			if r := recover(); r != nil {
				o.recoverFault(ctx, exec, result, log, r)
			}
		}()
		o.run(ctx, exec, result, log)
	}()

	exec.FinishedAt = time.Now()
	result.Reserved = exec.State.Succeeded()
	result.Err = exec.Failure

	code := "none"
	if exec.Failure != nil {
		code = exec.Failure.Code
	}
	metrics.RecordSagaOutcome(string(exec.State), code, exec.Duration())

	if result.Reserved {
		log.Info("Reservation saga completed",
			"state", exec.State,
			"quantity", req.Quantity,
			"notification_sent", result.Notification.Sent,
			"duration", exec.Duration(),
		)
	} else if exec.State != StateCompensationFailed {
		log.Warn("Reservation saga failed",
			"state", exec.State,
			"code", code,
			"error", exec.Failure,
			"duration", exec.Duration(),
		)
	}
	return result
}

func (o *Orchestrator) run(ctx context.Context, exec *Execution, result *Result, log *logger.Logger) {
	req := exec.Request

	err := o.step(ctx, exec, StepInventory, 1, o.policy.InventoryTimeout, func(ctx context.Context) error {
		_, err := o.ledger.Reserve(ctx, req.EventID, req.Quantity)
		return err
	})
	if err != nil {
		exec.Failure = classify(StepInventory, err)
		o.advance(exec, EventReserveFailed, log)
		return
	}
	exec.Held = req.Quantity
	o.advance(exec, EventReserved, log)

	var receipt *model.PaymentReceipt
	err = o.step(ctx, exec, StepPayment, 1, o.policy.PaymentTimeout, func(ctx context.Context) error {
		r, err := o.payments.Charge(ctx, model.Charge{
			ReservationID: exec.ID,
			UserID:        req.UserID,
			EventID:       req.EventID,
			Quantity:      req.Quantity,
			Price:         req.Price,
		})
		if err == nil {
			receipt = r
		}
		return err
	})
	if err != nil {
		// A timed out charge may still have succeeded at the processor; the
		// hold is released anyway and the charge is left for reconciliation.
		o.compensate(ctx, exec, EventPaymentFailed, classify(StepPayment, err), log)
		return
	}
	o.advance(exec, EventPaid, log)

	record := &model.Reservation{
		ID:        exec.ID,
		UserID:    req.UserID,
		EventID:   req.EventID,
		Quantity:  req.Quantity,
		Status:    model.ReservationStatusConfirmed,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if receipt != nil {
		record.Amount = receipt.Amount
		record.PaymentID = receipt.PaymentID
	}

	policy := retry.Policy{Attempts: o.policy.StoreAttempts, Delay: o.policy.StoreRetryDelay}
	attempts, err := retry.Do(ctx, policy, persistRetryable, func(ctx context.Context, attempt int) error {
		err := o.step(ctx, exec, StepStore, attempt, o.policy.StoreTimeout, func(ctx context.Context) error {
			return o.store.Save(ctx, record)
		})
		if err != nil && attempt < o.policy.StoreAttempts && persistRetryable(err) {
			log.Warn("Persist attempt failed, retrying", "attempt", attempt, "error", err)
		}
		return err
	})
	if err != nil {
		o.compensate(ctx, exec, EventPersistFailed, classifyPersistence(err, attempts), log)
		return
	}
	o.advance(exec, EventPersisted, log)

	result.Notification = o.notify(ctx, exec, log)
	o.advance(exec, EventNotifyDone, log)
}

// notify makes the single best-effort notification attempt. Its outcome is
// reported to the caller but never fails the saga.
func (o *Orchestrator) notify(ctx context.Context, exec *Execution, log *logger.Logger) model.NotificationResult {
	if o.notifier == nil {
		return model.NotificationResult{Sent: false, Details: "notifier not configured"}
	}

	req := exec.Request
	var sent model.NotificationResult
	err := o.step(ctx, exec, StepNotification, 1, o.policy.NotifyTimeout, func(ctx context.Context) error {
		r, err := o.notifier.Send(ctx, model.Notification{
			ReservationID: exec.ID,
			UserID:        req.UserID,
			EventID:       req.EventID,
			Quantity:      req.Quantity,
			Email:         req.Email,
		})
		if err == nil {
			sent = r
		}
		return err
	})
	if err != nil {
		nonCritical := apperrors.NonCritical("notification failed", err)
		log.Warn("Notification failed; reservation stands",
			"code", nonCritical.Code,
			"error", err,
		)
		return model.NotificationResult{Sent: false, Details: fmt.Sprintf("notification failed: %v", err)}
	}
	return sent
}

// compensate releases the held inventory exactly once. It only runs from a
// state that holds a reservation; any other state is left untouched.
func (o *Orchestrator) compensate(ctx context.Context, exec *Execution, ev Event, cause *apperrors.AppError, log *logger.Logger) {
	if !exec.State.HoldsReservation() {
		log.Error("Compensation requested without a held reservation", "state", exec.State)
		return
	}
	exec.Failure = cause
	o.advance(exec, ev, log)

	log.Info("Compensating reservation", "held", exec.Held, "cause", cause.Code)
	err := o.step(ctx, exec, StepCompensation, 1, o.policy.InventoryTimeout, func(ctx context.Context) error {
		_, err := o.ledger.Release(ctx, exec.Request.EventID, exec.Held)
		return err
	})
	if err != nil {
		exec.Failure = apperrors.CompensationFailed(cause, err)
		o.advance(exec, EventReleaseFailed, log)
		log.Error("Compensation failed; inventory hold stranded",
			"reconcile", true,
			"held", exec.Held,
			"cause", cause.Code,
			"error", err,
		)
		return
	}
	exec.Held = 0
	o.advance(exec, EventReleased, log)
}

// recoverFault handles a panic that escaped a step. The caller gets a
// generic downstream error; a held reservation is still compensated.
func (o *Orchestrator) recoverFault(ctx context.Context, exec *Execution, result *Result, log *logger.Logger, r any) {
	err := &retry.PanicError{Value: r}
	cause := apperrors.DownstreamError("reservation failed due to an internal fault", err)
	log.Error("Recovered fault during reservation saga", "state", exec.State, "error", err)

	switch {
	case exec.State == StateStarted:
		exec.Failure = cause
		o.advance(exec, EventReserveFailed, log)
	case exec.State.HoldsReservation():
		o.compensate(ctx, exec, compensationEvent(exec.State), cause, log)
	case exec.State == StatePersisted:
		result.Notification = model.NotificationResult{Sent: false, Details: fmt.Sprintf("notification failed: %v", err)}
		o.advance(exec, EventNotifyDone, log)
	case exec.State == StateCompensating:
		exec.Failure = apperrors.CompensationFailed(exec.Failure, err)
		o.advance(exec, EventReleaseFailed, log)
		log.Error("Compensation failed; inventory hold stranded", "reconcile", true, "held", exec.Held, "error", err)
	}
}

func compensationEvent(s State) Event {
	if s == StatePaid {
		return EventPersistFailed
	}
	return EventPaymentFailed
}

// step runs one bounded collaborator call and records the attempt.
func (o *Orchestrator) step(ctx context.Context, exec *Execution, name string, attempt int, timeout time.Duration, fn func(ctx context.Context) error) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = &retry.PanicError{Value: r}
		}
		exec.record(name, attempt, start, err)
		metrics.RecordStepAttempt(name, err == nil)
	}()
	return retry.Call(ctx, timeout, fn)
}

// advance applies ev to the execution. The orchestrator only issues events
// valid for the current state, so a rejected transition is a defect and
// panics into recoverFault.
func (o *Orchestrator) advance(exec *Execution, ev Event, log *logger.Logger) {
	next, err := Transition(exec.State, ev)
	if err != nil {
		panic(err)
	}
	log.Debug("Saga transition", "from", exec.State, "event", ev, "to", next)
	exec.State = next
}

func persistRetryable(err error) bool {
	return errors.Is(err, reserrors.ErrTransient) || retry.IsTimeout(err)
}

func classify(step string, err error) *apperrors.AppError {
	switch {
	case retry.IsTimeout(err):
		return apperrors.DownstreamTimeout(step, err)
	case retry.IsPanic(err):
		return apperrors.DownstreamError(fmt.Sprintf("unexpected failure in %s", step), err)
	case errors.Is(err, inverrors.ErrInsufficientInventory):
		return apperrors.InsufficientInventory("not enough seats available", err)
	default:
		return apperrors.DownstreamUnavailable(step, err)
	}
}

func classifyPersistence(err error, attempts int) *apperrors.AppError {
	if retry.IsPanic(err) {
		return classify(StepStore, err)
	}
	return apperrors.PersistenceFailure(persistRetryable(err), err).
		WithDetails(map[string]any{"attempts": attempts})
}
