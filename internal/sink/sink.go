// Package sink holds the contracts through which the core reports what it has
// scheduled and judged.
package sink

import "git.lost.host/meutraa/rhythm/internal/game"

// Sink receives the facts a renderer needs: a note exists at a clock time, a
// note was resolved, a beat line exists at a clock time.
type Sink interface {
	NoteSpawned(ev game.NoteSpawned)
	NoteResolved(ev game.NoteResolved)
	BeatLineSpawned(ev game.BeatLineSpawned)
}

// ScoreBoard receives the score after every resolution.
type ScoreBoard interface {
	ScoreChanged(score game.Score)
}

// Resetter forgets everything it has received, before a new session.
type Resetter interface {
	Reset()
}

// Discard drops everything.
type Discard struct{}

func (Discard) NoteSpawned(game.NoteSpawned)         {}
func (Discard) NoteResolved(game.NoteResolved)       {}
func (Discard) BeatLineSpawned(game.BeatLineSpawned) {}
func (Discard) ScoreChanged(game.Score)              {}

// Multi fans every event out to each sink in order.
type Multi []Sink

func (m Multi) NoteSpawned(ev game.NoteSpawned) {
	for _, s := range m {
		s.NoteSpawned(ev)
	}
}

func (m Multi) NoteResolved(ev game.NoteResolved) {
	for _, s := range m {
		s.NoteResolved(ev)
	}
}

func (m Multi) BeatLineSpawned(ev game.BeatLineSpawned) {
	for _, s := range m {
		s.BeatLineSpawned(ev)
	}
}

// Boards fans score updates out.
type Boards []ScoreBoard

func (b Boards) ScoreChanged(score game.Score) {
	for _, s := range b {
		s.ScoreChanged(score)
	}
}
