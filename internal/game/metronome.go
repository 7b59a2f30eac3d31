package game

// BeatState is how the metronome voices one beat of the measure.
type BeatState uint8

const (
	Silent BeatState = iota
	Tick
	Accent
)

// DefaultBeatStates accents the first beat and ticks the rest.
func DefaultBeatStates(beats int) []BeatState {
	states := make([]BeatState, beats)
	for i := range states {
		states[i] = Tick
	}
	if beats > 0 {
		states[0] = Accent
	}
	return states
}

// Level is one 16th cell of the rhythm track.
type Level uint8

const (
	Rest Level = iota
	Hit
	AccentHit
)
