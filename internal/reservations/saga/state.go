package saga

import (
	"errors"
	"fmt"
)

type State string

const (
	StateStarted            State = "STARTED"
	StateInventoryReserved  State = "INVENTORY_RESERVED"
	StatePaid               State = "PAID"
	StatePersisted          State = "PERSISTED"
	StateNotified           State = "NOTIFIED"
	StateCompensating       State = "COMPENSATING"
	StateCompensated        State = "COMPENSATED"
	StateCompensationFailed State = "COMPENSATION_FAILED"
	StateFailed             State = "FAILED"
)

type Event string

const (
	EventReserved      Event = "reserved"
	EventReserveFailed Event = "reserve_failed"
	EventPaid          Event = "paid"
	EventPaymentFailed Event = "payment_failed"
	EventPersisted     Event = "persisted"
	EventPersistFailed Event = "persist_failed"
	EventNotifyDone    Event = "notify_done"
	EventReleased      Event = "released"
	EventReleaseFailed Event = "release_failed"
)

var ErrInvalidTransition = errors.New("invalid saga transition")

var transitions = map[State]map[Event]State{
	StateStarted: {
		EventReserved:      StateInventoryReserved,
		EventReserveFailed: StateFailed,
	},
	StateInventoryReserved: {
		EventPaid:          StatePaid,
		EventPaymentFailed: StateCompensating,
	},
	StatePaid: {
		EventPersisted:     StatePersisted,
		EventPersistFailed: StateCompensating,
	},
	StatePersisted: {
		EventNotifyDone: StateNotified,
	},
	StateCompensating: {
		EventReleased:      StateCompensated,
		EventReleaseFailed: StateCompensationFailed,
	},
}

// Transition returns the state reached from s on ev. Terminal states accept
// no events.
func Transition(s State, ev Event) (State, error) {
	if next, ok := transitions[s][ev]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, s)
}

func (s State) Terminal() bool {
	switch s {
	case StateNotified, StateCompensated, StateCompensationFailed, StateFailed:
		return true
	}
	return false
}

// HoldsReservation reports whether inventory is held and not yet committed
// or released. Compensation may only start from these states.
func (s State) HoldsReservation() bool {
	return s == StateInventoryReserved || s == StatePaid
}

// Succeeded reports whether s is the single successful terminal state.
func (s State) Succeeded() bool {
	return s == StateNotified
}
