package saga

import (
	"errors"
	"testing"
)

func TestTransition_Valid(t *testing.T) {
	tests := []struct {
		from State
		ev   Event
		want State
	}{
		{StateStarted, EventReserved, StateInventoryReserved},
		{StateStarted, EventReserveFailed, StateFailed},
		{StateInventoryReserved, EventPaid, StatePaid},
		{StateInventoryReserved, EventPaymentFailed, StateCompensating},
		{StatePaid, EventPersisted, StatePersisted},
		{StatePaid, EventPersistFailed, StateCompensating},
		{StatePersisted, EventNotifyDone, StateNotified},
		{StateCompensating, EventReleased, StateCompensated},
		{StateCompensating, EventReleaseFailed, StateCompensationFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.ev), func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			if err != nil {
				t.Fatalf("Transition() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Transition() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTransition_Invalid(t *testing.T) {
	tests := []struct {
		from State
		ev   Event
	}{
		{StateStarted, EventPaid},
		{StateInventoryReserved, EventPersisted},
		{StatePersisted, EventPersistFailed},
		{StateCompensating, EventPaymentFailed},
		{StateNotified, EventNotifyDone},
		{StateCompensated, EventReleased},
		{StateCompensationFailed, EventReleased},
		{StateFailed, EventReserved},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.ev), func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
			if got != tt.from {
				t.Errorf("state changed to %s on an invalid event", got)
			}
		})
	}
}

func TestState_Predicates(t *testing.T) {
	all := []State{
		StateStarted, StateInventoryReserved, StatePaid, StatePersisted, StateNotified,
		StateCompensating, StateCompensated, StateCompensationFailed, StateFailed,
	}
	terminal := map[State]bool{StateNotified: true, StateCompensated: true, StateCompensationFailed: true, StateFailed: true}
	holding := map[State]bool{StateInventoryReserved: true, StatePaid: true}

	for _, s := range all {
		if s.Terminal() != terminal[s] {
			t.Errorf("%s.Terminal() = %v", s, s.Terminal())
		}
		if s.HoldsReservation() != holding[s] {
			t.Errorf("%s.HoldsReservation() = %v", s, s.HoldsReservation())
		}
		if _, ok := transitions[s]; ok == s.Terminal() {
			t.Errorf("%s: terminal states must have no outgoing transitions, others must", s)
		}
	}
}
