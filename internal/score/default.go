package score

import (
	"math"

	"git.lost.host/meutraa/rhythm/internal/game"
	"git.lost.host/meutraa/rhythm/internal/sink"
	"github.com/sirupsen/logrus"
)

type DefaultScorer struct {
	chart *game.Chart
	sink  sink.Sink
	board sink.ScoreBoard
	log   logrus.FieldLogger

	score game.Score

	// Running mean and sum of squared deviations of the signed error
	hits       uint64
	mean, m2   float64
	totalError float64
}

func New(chart *game.Chart, s sink.Sink, board sink.ScoreBoard, log logrus.FieldLogger) *DefaultScorer {
	if s == nil {
		s = sink.Discard{}
	}
	if board == nil {
		board = sink.Discard{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DefaultScorer{
		chart: chart,
		sink:  s,
		board: board,
		log:   log.WithField("component", "judge"),
	}
}

func (s *DefaultScorer) Reset() {
	s.score = game.Score{}
	s.hits = 0
	s.mean, s.m2, s.totalError = 0, 0, 0
	s.board.ScoreChanged(s.score)
}

func (s *DefaultScorer) Score() game.Score { return s.score }

func (s *DefaultScorer) Stats() Stats {
	st := Stats{Hits: s.hits, Mean: s.mean, TotalError: s.totalError}
	if s.hits > 1 {
		st.Stdev = math.Sqrt(s.m2 / float64(s.hits-1))
	}
	return st
}

// closest finds the unresolved note nearest to at. Notes are ordered by
// target, so the distance falls then rises and the scan stops at the turn.
func (s *DefaultScorer) closest(at float64) (*game.Note, float64) {
	var closestNote *game.Note
	distance := math.Inf(1)
	for _, note := range s.chart.Notes {
		if note.Resolved() {
			continue
		}
		d := note.Distance(at)
		if d < distance {
			distance = d
			closestNote = note
		} else if nil != closestNote {
			// already found the closest, and this d is > distance
			break
		}
	}
	return closestNote, distance
}

// TryHit judges a trigger at now. A trigger with no note inside the acceptance
// window is discarded without touching the score.
func (s *DefaultScorer) TryHit(now float64) (game.Judgement, bool) {
	note, distance := s.closest(now)
	if note == nil {
		return game.Judgement{}, false
	}
	outcome, ok := game.Judge(distance)
	if !ok {
		s.log.WithField("distance", distance).Debug("trigger matched no note")
		return game.Judgement{}, false
	}

	delta := now - note.Target
	if err := s.resolve(note, outcome, delta, true); err != nil {
		return game.Judgement{}, false
	}

	s.hits++
	s.totalError += distance
	d := delta - s.mean
	s.mean += d / float64(s.hits)
	s.m2 += d * (delta - s.mean)

	return game.Judgement{Note: note, Outcome: outcome, Delta: delta}, true
}

// ResolveTimeouts misses every unresolved note more than the timeout past its
// target and returns how many it resolved.
func (s *DefaultScorer) ResolveTimeouts(now float64) int {
	n := 0
	for _, note := range s.chart.Notes {
		if now-note.Target <= game.TimeoutAfter {
			break
		}
		if note.Resolved() {
			continue
		}
		if err := s.resolve(note, game.Miss, now-note.Target, false); err == nil {
			n++
		}
	}
	return n
}

func (s *DefaultScorer) resolve(note *game.Note, outcome game.Outcome, delta float64, byInput bool) error {
	if err := note.Resolve(outcome, delta, byInput); err != nil {
		s.log.WithError(err).Error("note resolved twice")
		return err
	}
	s.score.Add(outcome)
	s.sink.NoteResolved(game.NoteResolved{
		ID:      note.ID,
		Outcome: outcome,
		Delta:   delta,
		ByInput: byInput,
	})
	s.board.ScoreChanged(s.score)
	return nil
}
