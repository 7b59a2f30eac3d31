package score

import (
	"io/ioutil"
	"math"
	"testing"

	"git.lost.host/meutraa/rhythm/internal/game"
	"git.lost.host/meutraa/rhythm/internal/sink"
	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(ioutil.Discard)
	return l
}

func newScorer(targets ...float64) (*DefaultScorer, *game.Chart, *sink.Recorder) {
	chart := &game.Chart{}
	for _, t := range targets {
		chart.Add(game.Note{Target: t})
	}
	rec := &sink.Recorder{}
	return New(chart, rec, rec, quietLogger()), chart, rec
}

var windowTests = map[float64]struct {
	outcome game.Outcome
	matched bool
}{
	1.000: {game.Perfect, true},
	1.069: {game.Perfect, true},
	0.931: {game.Perfect, true},
	1.071: {game.Good, true},
	1.199: {game.Good, true},
	1.201: {game.Miss, true},
	0.799: {game.Miss, true},
	1.299: {game.Miss, true},
	1.301: {game.Unresolved, false},
	0.699: {game.Unresolved, false},
}

func TestTryHitWindows(t *testing.T) {
	for at, expected := range windowTests {
		scorer, chart, rec := newScorer(1.0)
		j, ok := scorer.TryHit(at)
		if ok != expected.matched {
			t.Errorf("hit at %v: matched %v, expected %v", at, ok, expected.matched)
			continue
		}
		if !ok {
			if chart.Notes[0].Resolved() || scorer.Score().Total() != 0 || len(rec.Resolved) != 0 {
				t.Errorf("hit at %v: unmatched trigger changed state", at)
			}
			continue
		}
		if j.Outcome != expected.outcome {
			t.Errorf("hit at %v: %v, expected %v", at, j.Outcome, expected.outcome)
		}
		if math.Abs(j.Delta-(at-1.0)) > 1e-12 {
			t.Errorf("hit at %v: delta %v", at, j.Delta)
		}
		if len(rec.Resolved) != 1 || !rec.Resolved[0].ByInput {
			t.Errorf("hit at %v: expected one input resolution, got %v", at, rec.Resolved)
		}
		if len(rec.Scores) != 1 || rec.Scores[0].Total() != 1 {
			t.Errorf("hit at %v: expected one score update, got %v", at, rec.Scores)
		}
	}
}

func TestTryHitPicksNearest(t *testing.T) {
	scorer, chart, _ := newScorer(1.0, 1.25, 1.5)

	j, ok := scorer.TryHit(1.27)
	if !ok || j.Note != chart.Notes[1] {
		t.Fatalf("expected note at 1.25, got %+v", j.Note)
	}
	if j.Outcome != game.Perfect {
		t.Fatalf("expected perfect, got %v", j.Outcome)
	}

	// The resolved note is skipped and the next nearest wins
	j, ok = scorer.TryHit(1.27)
	if !ok || j.Note != chart.Notes[2] {
		t.Fatalf("expected note at 1.5, got %+v", j.Note)
	}
	if j.Outcome != game.Miss {
		t.Fatalf("expected miss at 0.23 error, got %v", j.Outcome)
	}
}

func TestNoteResolvedOnce(t *testing.T) {
	scorer, chart, rec := newScorer(1.0)

	if _, ok := scorer.TryHit(1.0); !ok {
		t.Fatal("expected a match")
	}
	if _, ok := scorer.TryHit(1.0); ok {
		t.Fatal("a resolved note must not match again")
	}
	if n := scorer.ResolveTimeouts(5); n != 0 {
		t.Fatalf("timeout resolved %d notes already hit", n)
	}
	if len(rec.Resolved) != 1 || chart.Notes[0].Outcome != game.Perfect {
		t.Fatalf("expected a single perfect resolution, got %v", rec.Resolved)
	}
	if s := scorer.Score(); s != (game.Score{Perfect: 1}) {
		t.Fatalf("unexpected score %+v", s)
	}
}

func TestResolveTimeouts(t *testing.T) {
	scorer, chart, rec := newScorer(1.0, 1.5, 2.0)

	if n := scorer.ResolveTimeouts(1.2); n != 0 {
		t.Fatalf("timeout is strict, resolved %d at exactly 0.2", n)
	}
	if n := scorer.ResolveTimeouts(1.75); n != 2 {
		t.Fatalf("expected 2 timeouts, got %d", n)
	}
	if chart.Notes[2].Resolved() {
		t.Fatal("note at 2.0 is not due yet")
	}
	for _, ev := range rec.Resolved {
		if ev.Outcome != game.Miss || ev.ByInput {
			t.Fatalf("timeouts resolve as miss without input, got %+v", ev)
		}
	}
	if s := scorer.Score(); s != (game.Score{Miss: 2}) {
		t.Fatalf("unexpected score %+v", s)
	}
}

func TestStats(t *testing.T) {
	scorer, _, _ := newScorer(1, 2, 3, 4)
	for _, at := range []float64{1.01, 1.99, 3.03, 3.97} {
		if _, ok := scorer.TryHit(at); !ok {
			t.Fatalf("hit at %v did not match", at)
		}
	}
	st := scorer.Stats()
	if st.Hits != 4 {
		t.Fatalf("expected 4 hits, got %d", st.Hits)
	}
	if math.Abs(st.Mean) > 1e-9 {
		t.Errorf("expected zero mean, got %v", st.Mean)
	}
	if math.Abs(st.TotalError-0.08) > 1e-9 {
		t.Errorf("expected total error 0.08, got %v", st.TotalError)
	}
	// Sample deviation of {.01, -.01, .03, -.03}
	expected := math.Sqrt((0.0001 + 0.0001 + 0.0009 + 0.0009) / 3)
	if math.Abs(st.Stdev-expected) > 1e-9 {
		t.Errorf("expected stdev %v, got %v", expected, st.Stdev)
	}

	scorer.Reset()
	if scorer.Stats().Hits != 0 || scorer.Score().Total() != 0 {
		t.Fatal("reset kept state")
	}
}
