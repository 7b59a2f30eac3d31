package game

type NoteSpawned struct {
	ID     uint64
	Target float64
	Shape  Shape
	Accent bool
	Mode   RhythmMode
}

type NoteResolved struct {
	ID      uint64
	Outcome Outcome
	Delta   float64
	ByInput bool
}

type BeatLineSpawned struct {
	Target float64
}

// Trigger is a strike from any input source, stamped on the session clock.
type Trigger struct {
	At float64
}

// SoundID names a pre-decoded sample known to the audio collaborator.
type SoundID string

const (
	SoundAccent       SoundID = "accent"
	SoundTick         SoundID = "tick"
	SoundClick        SoundID = "click"
	SoundRhythm       SoundID = "rhythm"
	SoundRhythmAccent SoundID = "rhythm-accent"
)
