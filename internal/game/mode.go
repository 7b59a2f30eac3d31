package game

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// RhythmMode selects the grammar the pattern generator draws intervals from.
type RhythmMode uint8

const (
	Eighth RhythmMode = iota
	Sixteenth
	Mixed
	Permutation
	Binary
)

var ModeNames = map[string]RhythmMode{
	"eighth":      Eighth,
	"8":           Eighth,
	"sixteenth":   Sixteenth,
	"16":          Sixteenth,
	"mixed":       Mixed,
	"permutation": Permutation,
	"binary":      Binary,
}

func (m RhythmMode) String() string {
	switch m {
	case Eighth:
		return "eighth"
	case Sixteenth:
		return "sixteenth"
	case Mixed:
		return "mixed"
	case Permutation:
		return "permutation"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("RhythmMode(%d)", uint8(m))
}

func ParseRhythmMode(s string) (RhythmMode, error) {
	m, ok := ModeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Eighth, errors.Errorf("unknown rhythm mode %q", s)
	}
	return m, nil
}

// Subdivision is the metronome click density.
type Subdivision uint8

const (
	SubdivisionOff Subdivision = iota
	SubdivisionQuarter
	SubdivisionEighth
	SubdivisionSixteenth
)

var SubdivisionNames = map[string]Subdivision{
	"off":       SubdivisionOff,
	"0":         SubdivisionOff,
	"quarter":   SubdivisionQuarter,
	"4":         SubdivisionQuarter,
	"eighth":    SubdivisionEighth,
	"8":         SubdivisionEighth,
	"sixteenth": SubdivisionSixteenth,
	"16":        SubdivisionSixteenth,
}

func (s Subdivision) String() string {
	switch s {
	case SubdivisionOff:
		return "off"
	case SubdivisionQuarter:
		return "quarter"
	case SubdivisionEighth:
		return "eighth"
	case SubdivisionSixteenth:
		return "sixteenth"
	}
	return fmt.Sprintf("Subdivision(%d)", uint8(s))
}

// Plays reports whether a click falls on the given 16th step.
func (s Subdivision) Plays(step int) bool {
	switch s {
	case SubdivisionQuarter:
		return step%4 == 0
	case SubdivisionEighth:
		return step%2 == 0
	case SubdivisionSixteenth:
		return true
	}
	return false
}

func ParseSubdivision(s string) (Subdivision, error) {
	v, ok := SubdivisionNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return SubdivisionOff, errors.Errorf("unknown metronome subdivision %q", s)
	}
	return v, nil
}

// InputMode names where triggers come from.
type InputMode string

const (
	InputTouch InputMode = "touch"
	InputMic   InputMode = "mic"
	InputMIDI  InputMode = "midi"
)

func ParseInputMode(s string) (InputMode, error) {
	switch m := InputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case InputTouch, InputMic, InputMIDI:
		return m, nil
	}
	return InputTouch, errors.Errorf("unknown input mode %q", s)
}

// Shape of the target and of the notes falling towards it.
type Shape uint8

const (
	Circle Shape = iota
	Bar
)

func (s Shape) String() string {
	if s == Bar {
		return "bar"
	}
	return "circle"
}

func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "circle":
		return Circle, nil
	case "bar":
		return Bar, nil
	}
	return Circle, errors.Errorf("unknown shape %q", s)
}

const (
	MinBPM             = 40
	MaxBPM             = 240
	MinBeatsPerMeasure = 1
	MaxBeatsPerMeasure = 16
)

func ClampBPM(bpm int) int {
	if bpm < MinBPM {
		return MinBPM
	}
	if bpm > MaxBPM {
		return MaxBPM
	}
	return bpm
}

func ClampBeatsPerMeasure(n int) int {
	if n < MinBeatsPerMeasure {
		return MinBeatsPerMeasure
	}
	if n > MaxBeatsPerMeasure {
		return MaxBeatsPerMeasure
	}
	return n
}

// SecondsPerBeat converts a tempo into the length of one quarter note.
func SecondsPerBeat(bpm int) float64 {
	return 60.0 / float64(bpm)
}
