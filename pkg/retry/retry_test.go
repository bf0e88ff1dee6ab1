package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestCall_TimesOutWhenFnIgnoresContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	err := Call(context.Background(), 20*time.Millisecond, func(ctx context.Context) error {
		<-release
		return nil
	})

	if !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Call waited %v for a stuck function", elapsed)
	}
}

func TestCall_ReturnsFnError(t *testing.T) {
	err := Call(context.Background(), time.Second, func(ctx context.Context) error {
		return errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Errorf("expected errTransient, got %v", err)
	}
}

func TestCall_ContextAwareFnReportsTimeout(t *testing.T) {
	err := Call(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !IsTimeout(err) {
		t.Errorf("expected timeout, got %v", err)
	}
}

func TestCall_RecoversPanic(t *testing.T) {
	err := Call(context.Background(), time.Second, func(ctx context.Context) error {
		panic("boom")
	})
	if !IsPanic(err) {
		t.Errorf("expected panic error, got %v", err)
	}
}

func TestDo(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		retryable    bool
		attempts     int
		wantAttempts int
		wantErr      bool
	}{
		{"succeeds first try", 0, true, 3, 1, false},
		{"succeeds below the limit", 2, true, 3, 3, false},
		{"exhausts at the limit", 3, true, 3, 3, true},
		{"non-retryable stops at once", 3, false, 3, 1, true},
		{"zero attempts means one", 5, true, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			policy := Policy{Attempts: tt.attempts, Delay: time.Millisecond, Timeout: time.Second}

			n, err := Do(context.Background(), policy,
				func(error) bool { return tt.retryable },
				func(ctx context.Context, attempt int) error {
					if int(calls.Add(1)) <= tt.failures {
						return errTransient
					}
					return nil
				})

			if n != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", n, tt.wantAttempts)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if int(calls.Load()) != tt.wantAttempts {
				t.Errorf("fn called %d times, want %d", calls.Load(), tt.wantAttempts)
			}
		})
	}
}

func TestDo_RetriesTimeouts(t *testing.T) {
	var calls atomic.Int32
	n, err := Do(context.Background(),
		Policy{Attempts: 2, Delay: time.Millisecond, Timeout: 10 * time.Millisecond},
		IsTimeout,
		func(ctx context.Context, attempt int) error {
			if calls.Add(1) == 1 {
				<-ctx.Done()
				return ctx.Err()
			}
			return nil
		})

	if err != nil {
		t.Fatalf("expected success on second attempt, got %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}
