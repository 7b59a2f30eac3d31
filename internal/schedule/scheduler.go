package schedule

import (
	"math"

	"git.lost.host/meutraa/rhythm/internal/game"
	"git.lost.host/meutraa/rhythm/internal/pattern"
	"git.lost.host/meutraa/rhythm/internal/sink"
	"github.com/sirupsen/logrus"
)

type Options struct {
	BPM       int
	Lookahead float64 // Note and beat-line horizon, in seconds
	Shape     game.Shape
	Highlight bool // Accent notes on the first beat of a measure
}

type Scheduler struct {
	gen       *pattern.Generator
	chart     *game.Chart
	sink      sink.Sink
	metronome *Metronome
	log       logrus.FieldLogger

	bpm       int
	shape     game.Shape
	highlight bool

	notes Cursor
	lines Cursor
	beats float64 // Beats covered by the note stream since Reset

	late uint64
}

func New(opts Options, gen *pattern.Generator, chart *game.Chart, s sink.Sink, m *Metronome, log logrus.FieldLogger) *Scheduler {
	if s == nil {
		s = sink.Discard{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		gen:       gen,
		chart:     chart,
		sink:      s,
		metronome: m,
		log:       log.WithField("component", "scheduler"),
		bpm:       game.ClampBPM(opts.BPM),
		shape:     opts.Shape,
		highlight: opts.Highlight,
		notes:     Cursor{Horizon: opts.Lookahead},
		lines:     Cursor{Horizon: opts.Lookahead},
	}
}

// Reset puts every cursor on at and restarts the measure.
func (s *Scheduler) Reset(at float64) {
	s.notes.Next = at
	s.lines.Next = at
	s.beats = 0
	s.late = 0
	s.gen.Reset()
	if s.metronome != nil {
		s.metronome.Reset(at)
	}
}

// Tick emits every event whose time falls before now plus its stream's horizon.
func (s *Scheduler) Tick(now float64) {
	for s.notes.Due(now) {
		s.emitNote(now)
	}

	for s.lines.Due(now) {
		s.checkLate(now, s.lines.Next, "beat line")
		s.sink.BeatLineSpawned(game.BeatLineSpawned{Target: s.lines.Next})
		s.lines.Next += game.SecondsPerBeat(s.bpm)
	}

	if s.metronome != nil {
		s.metronome.Tick(now, s.bpm)
	}
}

func (s *Scheduler) emitNote(now float64) {
	at := s.notes.Next
	s.checkLate(now, at, "note")

	if s.gen.Sounds() {
		note := s.chart.Add(game.Note{
			Target: at,
			Mode:   s.gen.Mode(),
			Shape:  s.shape,
			Accent: s.highlight && onDownbeat(s.beats),
		})
		s.sink.NoteSpawned(game.NoteSpawned{
			ID:     note.ID,
			Target: note.Target,
			Shape:  note.Shape,
			Accent: note.Accent,
			Mode:   note.Mode,
		})
	}

	interval, boundary := s.gen.Next()
	s.notes.Next += interval * game.SecondsPerBeat(s.bpm)
	s.beats += interval
	if boundary {
		s.log.WithField("mode", s.gen.Mode()).Debug("measure boundary")
	}
}

// onDownbeat reports whether a beat position is the first beat of a 4/4 measure.
func onDownbeat(beats float64) bool {
	rounded := math.Round(beats*4) / 4
	return math.Abs(math.Mod(rounded, game.BeatsPerMeasure)) < 0.01
}

func (s *Scheduler) checkLate(now, at float64, stream string) {
	if at >= now {
		return
	}
	s.late++
	s.log.WithFields(logrus.Fields{
		"stream": stream,
		"lag":    now - at,
	}).Warn("event scheduled after its time, tick gap exceeded the horizon")
}

// SetBPM changes the tempo for every interval computed from now on.
func (s *Scheduler) SetBPM(bpm int) {
	s.bpm = game.ClampBPM(bpm)
}

func (s *Scheduler) BPM() int { return s.bpm }

// Stage queues a rhythm mode for the next measure boundary.
func (s *Scheduler) Stage(mode game.RhythmMode) {
	s.gen.Stage(mode)
}

func (s *Scheduler) Mode() game.RhythmMode { return s.gen.Mode() }

// Staged is the mode waiting for the next measure boundary, if any.
func (s *Scheduler) Staged() (game.RhythmMode, bool) { return s.gen.Staged() }

func (s *Scheduler) SetShape(shape game.Shape) { s.shape = shape }

func (s *Scheduler) SetHighlight(on bool) { s.highlight = on }

func (s *Scheduler) Metronome() *Metronome { return s.metronome }

// Late counts events emitted after their own time since the last Reset.
func (s *Scheduler) Late() uint64 { return s.late }

func (s *Scheduler) Cursors() Cursors {
	c := Cursors{Notes: s.notes, BeatLines: s.lines}
	if s.metronome != nil {
		c.Metronome = s.metronome.cursor
	}
	return c
}
