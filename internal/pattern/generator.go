// Package pattern generates the intervals between notes for each rhythm mode.
package pattern

import (
	"git.lost.host/meutraa/rhythm/internal/game"
	"golang.org/x/exp/rand"
)

// Permutations are the one-beat subdivisions permutation mode draws from.
var Permutations = [...][]float64{
	{0.5, 0.5},               // 8-8
	{0.25, 0.25, 0.25, 0.25}, // 16-16-16-16
	{0.5, 0.25, 0.25},        // 8-16-16
	{0.25, 0.25, 0.5},        // 16-16-8
	{0.25, 0.5, 0.25},        // 16-8-16
}

// Generator is the rhythm grammar state machine. It owns the measure state
// exclusively; a mode change is staged and only committed on a measure boundary.
type Generator struct {
	mode   game.RhythmMode
	staged *game.RhythmMode
	state  game.MeasureState
	rnd    *rand.Rand
}

func New(mode game.RhythmMode, src rand.Source) *Generator {
	g := &Generator{
		mode: mode,
		rnd:  rand.New(src),
	}
	g.reseed()
	return g
}

func (g *Generator) Mode() game.RhythmMode { return g.mode }

// State returns a copy of the measure state.
func (g *Generator) State() game.MeasureState {
	s := g.state
	s.Permutation = append([]float64(nil), g.state.Permutation...)
	s.Binary = append([]bool(nil), g.state.Binary...)
	return s
}

// Staged returns the mode waiting for the next measure boundary.
func (g *Generator) Staged() (game.RhythmMode, bool) {
	if g.staged == nil {
		return g.mode, false
	}
	return *g.staged, true
}

// Stage queues a mode change for the next measure boundary. Staging the active
// mode cancels a pending change.
func (g *Generator) Stage(mode game.RhythmMode) {
	if mode == g.mode {
		g.staged = nil
		return
	}
	g.staged = &mode
}

// Reset restarts the measure in the active mode. Any staged change stays staged.
func (g *Generator) Reset() {
	g.reseed()
}

// Sounds reports whether the current step produces a note. Only binary rests
// are silent; they still consume their interval.
func (g *Generator) Sounds() bool {
	if g.mode != game.Binary {
		return true
	}
	g.ensure()
	return g.state.Binary[g.state.Sixteenth%game.SixteenthsPerBeat]
}

// Next returns the interval in beats to the next step, and whether the step
// completed a measure.
func (g *Generator) Next() (float64, bool) {
	g.ensure()

	var interval float64
	switch g.mode {
	case game.Eighth:
		interval = 0.5
		g.state.Beats += interval
	case game.Sixteenth:
		interval = 0.25
		g.state.Beats += interval
	case game.Mixed:
		interval = 0.25
		if g.rnd.Intn(2) == 0 {
			interval = 0.5
		}
		g.state.Beats += interval
	case game.Permutation:
		interval = g.state.Permutation[g.state.PermutationIndex]
		g.state.PermutationIndex++
		if g.state.PermutationIndex >= len(g.state.Permutation) {
			g.state.PermutationIndex = 0
			g.state.Beats++
			if g.state.Beats < game.BeatsPerMeasure {
				g.state.Permutation = g.drawPermutation()
			}
		}
	case game.Binary:
		interval = 0.25
		g.state.Sixteenth++
	}

	return interval, g.ApplyStagedIfBoundary()
}

// ApplyStagedIfBoundary commits a staged mode once the measure grid has wrapped,
// then resets the measure and seeds the generator state of the active mode so
// the very next step has valid data. It does nothing mid-measure.
func (g *Generator) ApplyStagedIfBoundary() bool {
	if g.state.Beats < game.BeatsPerMeasure && g.state.Sixteenth < game.SixteenthsPerMeasure {
		return false
	}
	if g.staged != nil {
		g.mode = *g.staged
		g.staged = nil
	}
	g.reseed()
	return true
}

func (g *Generator) reseed() {
	g.state = game.MeasureState{}
	switch g.mode {
	case game.Permutation:
		g.state.Permutation = g.drawPermutation()
	case game.Binary:
		g.state.Binary = g.drawBinary()
	}
}

// ensure covers a generator whose mode state went missing.
func (g *Generator) ensure() {
	switch g.mode {
	case game.Permutation:
		if len(g.state.Permutation) == 0 {
			g.state.Permutation = g.drawPermutation()
			g.state.PermutationIndex = 0
		}
	case game.Binary:
		if len(g.state.Binary) != game.SixteenthsPerBeat {
			g.state.Binary = g.drawBinary()
		}
	}
}

func (g *Generator) drawPermutation() []float64 {
	return Permutations[g.rnd.Intn(len(Permutations))]
}

func (g *Generator) drawBinary() []bool {
	slots := make([]bool, game.SixteenthsPerBeat)
	for i := range slots {
		slots[i] = g.rnd.Float64() >= 0.5
	}
	return slots
}
