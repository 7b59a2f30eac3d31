package game

const (
	BeatsPerMeasure      = 4
	SixteenthsPerBeat    = 4
	SixteenthsPerMeasure = BeatsPerMeasure * SixteenthsPerBeat
)

// MeasureState is the pattern generator's position inside the current measure.
type MeasureState struct {
	Beats     float64 // Beats elapsed in the measure, 0..4
	Sixteenth int     // 16th steps elapsed, binary mode only

	Permutation      []float64 // The one-beat pattern being walked, nil outside permutation mode
	PermutationIndex int

	Binary []bool // Note/rest per 16th slot of a beat, nil outside binary mode
}

// Rests counts the rest slots of the binary sub-pattern.
func (m MeasureState) Rests() int {
	n := 0
	for _, on := range m.Binary {
		if !on {
			n++
		}
	}
	return n
}
