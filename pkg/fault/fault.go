// Package fault holds the process-wide fault injection switches of each
// collaborator. Every cell is an atomic value: toggles may race with
// in-flight calls and are observed by the next call that reads them.
package fault

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"
)

var (
	ErrInjected = errors.New("service unavailable (simulated)")
	ErrFlaky    = errors.New("intermittent failure (simulated)")
)

type Switch struct {
	v atomic.Bool
}

// Set stores enabled and reports whether the value changed.
func (s *Switch) Set(enabled bool) bool {
	return s.v.Swap(enabled) != enabled
}

func (s *Switch) Enabled() bool {
	return s.v.Load()
}

type Latency struct {
	d atomic.Int64
}

func (l *Latency) Set(d time.Duration) bool {
	if d < 0 {
		d = 0
	}
	return time.Duration(l.d.Swap(int64(d))) != d
}

func (l *Latency) Get() time.Duration {
	return time.Duration(l.d.Load())
}

// Rate is a probability in [0, 1].
type Rate struct {
	bits atomic.Uint64
}

func (r *Rate) Set(p float64) bool {
	p = math.Max(0, math.Min(1, p))
	return math.Float64frombits(r.bits.Swap(math.Float64bits(p))) != p
}

func (r *Rate) Get() float64 {
	return math.Float64frombits(r.bits.Load())
}

type Profile struct {
	Name  string
	Crash Switch
	Delay Latency
	Flaky Rate

	// Roll draws the number compared against Flaky. Defaults to rand.Float64.
	Roll func() float64
}

type Snapshot struct {
	Crash          bool    `json:"crash"`
	LatencySeconds float64 `json:"latency_seconds"`
	FailureRate    float64 `json:"failure_rate"`
}

func NewProfile(name string) *Profile {
	return &Profile{Name: name, Roll: rand.Float64}
}

func (p *Profile) Snapshot() Snapshot {
	return Snapshot{
		Crash:          p.Crash.Enabled(),
		LatencySeconds: p.Delay.Get().Seconds(),
		FailureRate:    p.Flaky.Get(),
	}
}

// Inject applies the faults active when the call starts: added latency first,
// then the crash switch, then the intermittent failure draw.
func (p *Profile) Inject(ctx context.Context) error {
	crash := p.Crash.Enabled()
	delay := p.Delay.Get()
	rate := p.Flaky.Get()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	if crash {
		return fmt.Errorf("%s: %w", p.Name, ErrInjected)
	}
	if rate > 0 && p.roll() < rate {
		return fmt.Errorf("%s: %w", p.Name, ErrFlaky)
	}
	return nil
}

func (p *Profile) roll() float64 {
	if p.Roll == nil {
		return rand.Float64()
	}
	return p.Roll()
}

// Reset clears every fault.
func (p *Profile) Reset() {
	p.Crash.Set(false)
	p.Delay.Set(0)
	p.Flaky.Set(0)
}
