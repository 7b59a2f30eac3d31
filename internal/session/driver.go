package session

import (
	"context"
	"time"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrDriverClosed = errors.New("driver is not running")

type DriverOptions struct {
	TickPeriod    time.Duration // Scheduling cadence, 16ms when zero
	Countdown     int           // Counts before a resume
	CountdownStep time.Duration // Time between counts, 1s when zero
	Triggers      int           // Buffered strikes, 64 when zero
}

type op struct {
	fn   func(*Session) error
	done chan error
}

// Driver owns a Session on a single goroutine. Scheduling ticks, strikes and
// transport changes are all serialised through its loop, so the session needs
// no locking.
type Driver struct {
	session *Session
	log     logrus.FieldLogger

	period        time.Duration
	countdown     int
	countdownStep time.Duration

	triggers chan game.Trigger
	ops      chan op
	closed   chan struct{}

	// OnJudgement is called on the loop goroutine for every matched strike.
	OnJudgement func(game.Judgement)
}

func NewDriver(s *Session, opts DriverOptions, log logrus.FieldLogger) *Driver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = 16 * time.Millisecond
	}
	if opts.CountdownStep <= 0 {
		opts.CountdownStep = time.Second
	}
	if opts.Triggers <= 0 {
		opts.Triggers = 64
	}
	return &Driver{
		session:       s,
		log:           log.WithField("component", "driver"),
		period:        opts.TickPeriod,
		countdown:     opts.Countdown,
		countdownStep: opts.CountdownStep,
		triggers:      make(chan game.Trigger, opts.Triggers),
		ops:           make(chan op),
		closed:        make(chan struct{}),
	}
}

// Run drives the session until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	defer close(d.closed)

	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	for {
		// A nil channel blocks, detaching the ticker while not running
		var tick <-chan time.Time
		if d.session.State() == Running {
			tick = ticker.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			d.session.Tick()
		case tr := <-d.triggers:
			if j, ok := d.session.Trigger(tr); ok && d.OnJudgement != nil {
				d.OnJudgement(j)
			}
		case o := <-d.ops:
			o.done <- o.fn(d.session)
		}
	}
}

// Trigger queues a strike. It never blocks; a full queue drops the strike.
func (d *Driver) Trigger(tr game.Trigger) bool {
	select {
	case d.triggers <- tr:
		return true
	default:
		d.log.WithField("at", tr.At).Warn("trigger queue full, dropping strike")
		return false
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (d *Driver) Do(ctx context.Context, fn func(*Session) error) error {
	o := op{fn: fn, done: make(chan error, 1)}
	select {
	case d.ops <- o:
	case <-d.closed:
		return ErrDriverClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-o.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pause toggles between running and paused. Resuming counts down first,
// calling onCount with each remaining count.
func (d *Driver) Pause(ctx context.Context, onCount func(n int)) error {
	var state State
	if err := d.Do(ctx, func(s *Session) error {
		state = s.State()
		if state == Running {
			return s.Pause()
		}
		return nil
	}); err != nil {
		return err
	}
	if state != Paused {
		return nil
	}
	return d.Resume(ctx, onCount)
}

// Resume runs the countdown on the caller's goroutine, then resumes the
// session. The session stays paused while counting.
func (d *Driver) Resume(ctx context.Context, onCount func(n int)) error {
	for n := d.countdown; n > 0; n-- {
		if onCount != nil {
			onCount(n)
		}
		t := time.NewTimer(d.countdownStep)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}
	if onCount != nil {
		onCount(0)
	}
	return d.Do(ctx, (*Session).Resume)
}
