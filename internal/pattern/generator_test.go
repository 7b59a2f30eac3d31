package pattern

import (
	"math"
	"testing"

	"git.lost.host/meutraa/rhythm/internal/game"
	"golang.org/x/exp/rand"
)

func newGenerator(mode game.RhythmMode, seed uint64) *Generator {
	return New(mode, rand.NewSource(seed))
}

var fixedIntervals = map[game.RhythmMode]struct {
	interval float64
	steps    int
}{
	game.Eighth:    {0.5, 8},
	game.Sixteenth: {0.25, 16},
	game.Binary:    {0.25, 16},
}

func TestFixedIntervalModes(t *testing.T) {
	for mode, expected := range fixedIntervals {
		g := newGenerator(mode, 1)
		for measure := 0; measure < 3; measure++ {
			for step := 1; step <= expected.steps; step++ {
				interval, boundary := g.Next()
				if interval != expected.interval {
					t.Fatalf("%v: expected interval %v, got %v", mode, expected.interval, interval)
				}
				if boundary != (step == expected.steps) {
					t.Fatalf("%v: step %d of measure %d reported boundary=%v", mode, step, measure, boundary)
				}
			}
		}
	}
}

func TestMixedDrawsEighthsAndSixteenths(t *testing.T) {
	g := newGenerator(game.Mixed, 7)
	seen := map[float64]int{}
	for i := 0; i < 400; i++ {
		interval, _ := g.Next()
		if interval != 0.25 && interval != 0.5 {
			t.Fatalf("unexpected mixed interval %v", interval)
		}
		seen[interval]++
	}
	if seen[0.25] == 0 || seen[0.5] == 0 {
		t.Fatalf("expected both intervals, got %v", seen)
	}
}

func TestPermutationWalksOneBeatPerPattern(t *testing.T) {
	g := newGenerator(game.Permutation, 3)
	for measure := 0; measure < 10; measure++ {
		total := 0.0
		boundary := false
		steps := 0
		for !boundary {
			state := g.State()
			if state.PermutationIndex == 0 && !isPermutation(state.Permutation) {
				t.Fatalf("pattern %v is not in the permutation table", state.Permutation)
			}
			var interval float64
			interval, boundary = g.Next()
			total += interval
			steps++
			if steps > 16 {
				t.Fatalf("measure %d did not end after %d steps", measure, steps)
			}
		}
		if math.Abs(total-4) > 1e-12 {
			t.Fatalf("measure %d lasted %v beats", measure, total)
		}
	}
}

func isPermutation(p []float64) bool {
	for _, candidate := range Permutations {
		if len(candidate) != len(p) {
			continue
		}
		same := true
		for i := range p {
			if p[i] != candidate[i] {
				same = false
			}
		}
		if same {
			return true
		}
	}
	return false
}

func TestBinaryRestSuppression(t *testing.T) {
	for seed := uint64(0); seed < 32; seed++ {
		g := newGenerator(game.Binary, seed)
		k := g.State().Rests()
		notes := 0
		beats := 0.0
		for step := 0; step < game.SixteenthsPerMeasure; step++ {
			if g.Sounds() {
				notes++
			}
			interval, _ := g.Next()
			beats += interval
		}
		if notes != 16-4*k {
			t.Fatalf("seed %d: %d rests per beat should give %d notes, got %d", seed, k, 16-4*k, notes)
		}
		if beats != 4 {
			t.Fatalf("seed %d: measure advanced %v beats", seed, beats)
		}
	}
}

func TestBinarySubPatternRepeatsEveryBeat(t *testing.T) {
	g := newGenerator(game.Binary, 11)
	pattern := g.State().Binary
	for step := 0; step < game.SixteenthsPerMeasure; step++ {
		if g.Sounds() != pattern[step%4] {
			t.Fatalf("step %d does not follow sub-pattern %v", step, pattern)
		}
		g.Next()
	}
}

func TestStagedModeWaitsForBoundary(t *testing.T) {
	g := newGenerator(game.Eighth, 1)
	g.Next()
	g.Next()
	g.Stage(game.Sixteenth)

	if staged, ok := g.Staged(); !ok || staged != game.Sixteenth {
		t.Fatalf("expected sixteenth staged, got %v %v", staged, ok)
	}
	if g.ApplyStagedIfBoundary() {
		t.Fatal("mode applied mid-measure")
	}
	for i := 2; i < 8; i++ {
		interval, boundary := g.Next()
		if interval != 0.5 {
			t.Fatalf("step %d used %v before the boundary", i, interval)
		}
		if boundary != (i == 7) {
			t.Fatalf("unexpected boundary at step %d", i)
		}
	}
	if g.Mode() != game.Sixteenth {
		t.Fatalf("expected sixteenth after boundary, got %v", g.Mode())
	}
	if _, ok := g.Staged(); ok {
		t.Fatal("staged mode was not consumed")
	}
	if interval, _ := g.Next(); interval != 0.25 {
		t.Fatalf("first step after switch used %v", interval)
	}
}

func TestSwitchIntoPatternModesSeedsEagerly(t *testing.T) {
	for _, mode := range []game.RhythmMode{game.Binary, game.Permutation} {
		g := newGenerator(game.Sixteenth, 5)
		g.Stage(mode)
		for i := 0; i < 16; i++ {
			g.Next()
		}
		state := g.State()
		if g.Mode() != mode {
			t.Fatalf("expected %v, got %v", mode, g.Mode())
		}
		if mode == game.Binary && len(state.Binary) != 4 {
			t.Fatalf("binary sub-pattern not seeded: %v", state.Binary)
		}
		if mode == game.Permutation && !isPermutation(state.Permutation) {
			t.Fatalf("permutation not seeded: %v", state.Permutation)
		}
		if state.Beats != 0 || state.Sixteenth != 0 {
			t.Fatalf("measure state not reset: %+v", state)
		}
	}
}

func TestStagingActiveModeCancels(t *testing.T) {
	g := newGenerator(game.Mixed, 1)
	g.Stage(game.Binary)
	g.Stage(game.Mixed)
	if _, ok := g.Staged(); ok {
		t.Fatal("staging the active mode should cancel the pending change")
	}
}

func TestSameSeedSameIntervals(t *testing.T) {
	a, b := newGenerator(game.Mixed, 42), newGenerator(game.Mixed, 42)
	for i := 0; i < 100; i++ {
		x, _ := a.Next()
		y, _ := b.Next()
		if x != y {
			t.Fatalf("step %d diverged: %v != %v", i, x, y)
		}
	}
}

func BenchmarkNextPermutation(b *testing.B) {
	g := newGenerator(game.Permutation, 1)
	for n := 0; n < b.N; n++ {
		g.Next()
	}
}
