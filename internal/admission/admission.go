// Package admission bounds the number of reservations in flight. A request
// either gets a permit immediately or is turned away; it never waits.
package admission

import (
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var ErrSaturated = errors.New("admission capacity exhausted")

type Controller struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight atomic.Int64
}

func NewController(capacity int) *Controller {
	if capacity < 1 {
		capacity = 1
	}
	return &Controller{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
}

// Permit is one held slot. Release is idempotent.
type Permit struct {
	c    *Controller
	once sync.Once
}

// TryAdmit takes a slot if one is free and returns ErrSaturated otherwise.
func (c *Controller) TryAdmit() (*Permit, error) {
	if !c.sem.TryAcquire(1) {
		return nil, ErrSaturated
	}
	c.inFlight.Add(1)
	return &Permit{c: c}, nil
}

func (p *Permit) Release() {
	p.once.Do(func() {
		p.c.inFlight.Add(-1)
		p.c.sem.Release(1)
	})
}

// Do runs fn under a permit. The permit is returned on every exit path,
// including a panic in fn, which is re-raised after the release.
func (c *Controller) Do(fn func() error) error {
	permit, err := c.TryAdmit()
	if err != nil {
		return err
	}
	defer permit.Release()
	return fn()
}

func (c *Controller) InFlight() int {
	return int(c.inFlight.Load())
}

func (c *Controller) Capacity() int {
	return int(c.capacity)
}
