package saga

import (
	"time"

	apperrors "seatsaga/pkg/errors"
	"seatsaga/pkg/model"
)

const (
	StepInventory    = "inventory"
	StepPayment      = "payment"
	StepStore        = "store"
	StepNotification = "notification"
	StepCompensation = "compensation"
)

type StepAttempt struct {
	Step     string        `json:"step"`
	Attempt  int           `json:"attempt"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Execution is the record of one saga run. It is owned by the goroutine
// running the saga and is not safe for concurrent mutation.
type Execution struct {
	ID         string                   `json:"id"`
	Request    model.ReservationRequest `json:"request"`
	State      State                    `json:"state"`
	Held       int                      `json:"held"`
	Attempts   []StepAttempt            `json:"attempts"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
	Failure    *apperrors.AppError      `json:"failure,omitempty"`
}

func (e *Execution) Duration() time.Duration {
	if e.FinishedAt.IsZero() {
		return time.Since(e.StartedAt)
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// AttemptsFor counts recorded attempts of step.
func (e *Execution) AttemptsFor(step string) int {
	n := 0
	for _, a := range e.Attempts {
		if a.Step == step {
			n++
		}
	}
	return n
}

func (e *Execution) record(step string, attempt int, start time.Time, err error) {
	a := StepAttempt{
		Step:     step,
		Attempt:  attempt,
		Start:    start,
		Duration: time.Since(start),
	}
	if err != nil {
		a.Error = err.Error()
	}
	e.Attempts = append(e.Attempts, a)
}
