// Package session runs one practice exercise: it owns the transport state and
// ties the clock, the scheduler and the judgement engine together.
package session

import (
	"fmt"

	"git.lost.host/meutraa/rhythm/internal/clock"
	"git.lost.host/meutraa/rhythm/internal/game"
	"git.lost.host/meutraa/rhythm/internal/schedule"
	"git.lost.host/meutraa/rhythm/internal/score"
	"git.lost.host/meutraa/rhythm/internal/sink"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrInvalidTransition = errors.New("invalid transition")

type State uint8

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

type Options struct {
	Fall   float64 // Seconds a note takes to travel to the hit line
	Retain float64 // Seconds a resolved note stays in the chart past its target

	// Views are reset whenever a session starts
	Views []sink.Resetter
}

type Session struct {
	clock     clock.Clock
	scheduler *schedule.Scheduler
	judge     score.Scorer
	chart     *game.Chart
	player    schedule.Player
	log       logrus.FieldLogger

	views []sink.Resetter

	state  State
	fall   float64
	retain float64
}

func New(opts Options, c clock.Clock, sched *schedule.Scheduler, judge score.Scorer, chart *game.Chart, player schedule.Player, log logrus.FieldLogger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Retain <= 0 {
		opts.Retain = 1
	}
	return &Session{
		clock:     c,
		scheduler: sched,
		judge:     judge,
		chart:     chart,
		player:    player,
		log:       log.WithField("component", "session"),
		views:     opts.Views,
		fall:      opts.Fall,
		retain:    opts.Retain,
	}
}

func (s *Session) transition(from []State, to State) error {
	for _, f := range from {
		if s.state == f {
			s.log.WithFields(logrus.Fields{"from": s.state, "to": to}).Info("transport")
			s.state = to
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidTransition, "%v to %v", s.state, to)
}

// Start begins a fresh exercise. The first note lands one fall duration from now.
func (s *Session) Start() error {
	if err := s.transition([]State{Stopped}, Running); err != nil {
		return err
	}
	s.judge.Reset()
	s.chart.Clear()
	for _, v := range s.views {
		v.Reset()
	}
	s.scheduler.Reset(s.clock.Now() + s.fall)
	return nil
}

// Pause freezes the clock. Cursors and notes are left as they are, so resuming
// continues exactly where the exercise stopped.
func (s *Session) Pause() error {
	if s.state != Running {
		return errors.Wrapf(ErrInvalidTransition, "%v to %v", s.state, Paused)
	}
	if err := s.clock.Suspend(); err != nil {
		return errors.Wrap(err, "unable to suspend clock")
	}
	return s.transition([]State{Running}, Paused)
}

func (s *Session) Resume() error {
	if s.state != Paused {
		return errors.Wrapf(ErrInvalidTransition, "%v to %v", s.state, Running)
	}
	if err := s.clock.Resume(); err != nil {
		return errors.Wrap(err, "unable to resume clock")
	}
	return s.transition([]State{Paused}, Running)
}

// Stop ends the exercise and discards its notes. The score stays readable
// until the next Start.
func (s *Session) Stop() error {
	if s.state == Paused {
		if err := s.clock.Resume(); err != nil {
			return errors.Wrap(err, "unable to resume clock")
		}
	}
	if err := s.transition([]State{Running, Paused}, Stopped); err != nil {
		return err
	}
	s.chart.Clear()
	return nil
}

// Tick schedules ahead of the clock and times out stale notes.
func (s *Session) Tick() {
	if s.state != Running {
		return
	}
	now := s.clock.Now()
	s.scheduler.Tick(now)
	s.judge.ResolveTimeouts(now)
	s.chart.Prune(now - s.retain)
}

// Trigger judges a strike. Strikes outside a running session are ignored.
func (s *Session) Trigger(tr game.Trigger) (game.Judgement, bool) {
	if s.state != Running {
		return game.Judgement{}, false
	}
	j, ok := s.judge.TryHit(tr.At)
	if ok && s.player != nil {
		s.player.SchedulePlayback(game.SoundClick, s.clock.Now())
	}
	return j, ok
}

func (s *Session) State() State { return s.state }

func (s *Session) Now() float64 { return s.clock.Now() }

// StageMode switches the rhythm at the next measure boundary.
func (s *Session) StageMode(mode game.RhythmMode) {
	s.log.WithField("mode", mode).Debug("mode staged")
	s.scheduler.Stage(mode)
}

func (s *Session) SetBPM(bpm int) { s.scheduler.SetBPM(bpm) }

func (s *Session) BPM() int { return s.scheduler.BPM() }

func (s *Session) Mode() game.RhythmMode { return s.scheduler.Mode() }

func (s *Session) Staged() (game.RhythmMode, bool) { return s.scheduler.Staged() }

func (s *Session) Scheduler() *schedule.Scheduler { return s.scheduler }

func (s *Session) Score() game.Score { return s.judge.Score() }

func (s *Session) Stats() score.Stats { return s.judge.Stats() }

// Fall is the time a note is visible before its target.
func (s *Session) Fall() float64 { return s.fall }
