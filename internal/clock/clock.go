// Package clock defines the monotonic timeline shared by the scheduler and the
// judgement engine.
package clock

import "github.com/pkg/errors"

var (
	ErrSuspended    = errors.New("clock already suspended")
	ErrNotSuspended = errors.New("clock not suspended")
)

// Clock is a monotonic time source in seconds. While suspended Now does not advance.
type Clock interface {
	Now() float64
	Suspend() error
	Resume() error
}

// Manual is a Clock that only moves when told to.
type Manual struct {
	now       float64
	suspended bool
}

func NewManual(start float64) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() float64 { return m.now }

// Advance moves the clock forward unless it is suspended.
func (m *Manual) Advance(d float64) {
	if m.suspended || d < 0 {
		return
	}
	m.now += d
}

// Set jumps to t if t is not in the past.
func (m *Manual) Set(t float64) {
	if m.suspended || t < m.now {
		return
	}
	m.now = t
}

func (m *Manual) Suspended() bool { return m.suspended }

func (m *Manual) Suspend() error {
	if m.suspended {
		return ErrSuspended
	}
	m.suspended = true
	return nil
}

func (m *Manual) Resume() error {
	if !m.suspended {
		return ErrNotSuspended
	}
	m.suspended = false
	return nil
}
