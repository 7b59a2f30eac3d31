// Package schedule converts the rhythm grammar into timestamped events ahead of
// the clock.
//
// Every stream keeps a Cursor: the clock time of its next event and how far
// ahead of the clock it may run. Cursors only move forward by computed
// intervals, never by when Tick happened to run, so the timestamps are exact
// regardless of caller jitter. The one precondition is that each Horizon
// exceeds the longest gap between two Tick calls.
package schedule

import "git.lost.host/meutraa/rhythm/internal/game"

type Cursor struct {
	Next    float64 // Clock time of the next event
	Horizon float64 // How far ahead of the clock events are emitted
}

// Due reports whether the next event falls inside the horizon.
func (c Cursor) Due(now float64) bool {
	return c.Next < now+c.Horizon
}

// Cursors is a snapshot of every stream's cursor.
type Cursors struct {
	Notes     Cursor
	BeatLines Cursor
	Metronome Cursor
}

// Player is the audio collaborator. It must start the sample so that its first
// frame lands on at, whenever the call is made.
type Player interface {
	SchedulePlayback(id game.SoundID, at float64)
}

type silentPlayer struct{}

func (silentPlayer) SchedulePlayback(game.SoundID, float64) {}
