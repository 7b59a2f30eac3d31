package parser

import "git.lost.host/meutraa/rhythm/internal/game"

type Parser interface {
	// ParseRhythm reads a 16th rhythm track and fits it to the given number of steps.
	ParseRhythm(s string, steps int) ([]game.Level, error)

	// ParseBeatStates reads one metronome state per beat.
	ParseBeatStates(s string, beats int) ([]game.BeatState, error)
}
