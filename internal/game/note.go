package game

import (
	"math"

	"github.com/pkg/errors"
)

var ErrAlreadyResolved = errors.New("note already resolved")

type Note struct {
	ID     uint64
	Target float64    // Clock time the note should be hit
	Mode   RhythmMode // Mode that scheduled this note
	Shape  Shape
	Accent bool // Falls on the first beat of a measure

	// This is state
	Outcome Outcome
	Delta   float64 // Signed hit error in seconds, positive when late
	ByInput bool    // Resolved by a trigger rather than by timeout
}

func (note *Note) Resolved() bool {
	return note.Outcome != Unresolved
}

// Resolve records the note's outcome. A note can only be resolved once.
func (note *Note) Resolve(outcome Outcome, delta float64, byInput bool) error {
	if note.Resolved() {
		return errors.Wrapf(ErrAlreadyResolved, "note %d is %v", note.ID, note.Outcome)
	}
	if outcome == Unresolved {
		return errors.Errorf("note %d cannot be resolved as %v", note.ID, outcome)
	}
	note.Outcome = outcome
	note.Delta = delta
	note.ByInput = byInput
	return nil
}

// Distance is the absolute timing error of a hit at the given time.
func (note *Note) Distance(at float64) float64 {
	return math.Abs(at - note.Target)
}
