package schedule

import (
	"git.lost.host/meutraa/rhythm/internal/game"
	"golang.org/x/exp/rand"
)

type MetronomeOptions struct {
	Subdivision     game.Subdivision
	BeatsPerMeasure int
	BeatStates      []game.BeatState // One per beat, nil for an accented first beat
	Rhythm          []game.Level     // 16th rhythm track, nil for none
	RandomRhythm    bool             // Draw a new rhythm track every measure
	RhythmAccents   bool             // Random tracks may contain accents
	Horizon         float64
}

// Metronome schedules clicks on a 16th grid with a short horizon, so sound is
// queued just before it is due.
type Metronome struct {
	player Player
	rnd    *rand.Rand

	cursor Cursor
	index  int // 16th steps since Reset

	sub           game.Subdivision
	beats         int
	states        []game.BeatState
	rhythm        []game.Level
	randomRhythm  bool
	rhythmAccents bool
}

func NewMetronome(opts MetronomeOptions, player Player, src rand.Source) *Metronome {
	if player == nil {
		player = silentPlayer{}
	}
	m := &Metronome{
		player:        player,
		rnd:           rand.New(src),
		cursor:        Cursor{Horizon: opts.Horizon},
		sub:           opts.Subdivision,
		rhythm:        opts.Rhythm,
		randomRhythm:  opts.RandomRhythm,
		rhythmAccents: opts.RhythmAccents,
	}
	m.SetBeatsPerMeasure(opts.BeatsPerMeasure)
	if len(opts.BeatStates) == m.beats {
		m.states = append([]game.BeatState(nil), opts.BeatStates...)
	}
	return m
}

func (m *Metronome) Reset(at float64) {
	m.cursor.Next = at
	m.index = 0
}

func (m *Metronome) Tick(now float64, bpm int) {
	for m.cursor.Due(now) {
		m.play(m.cursor.Next, m.index)
		m.cursor.Next += game.SecondsPerBeat(bpm) / game.SixteenthsPerBeat
		m.index++
	}
}

// StepsPerMeasure is the length of the 16th grid.
func (m *Metronome) StepsPerMeasure() int {
	return m.beats * game.SixteenthsPerBeat
}

func (m *Metronome) play(at float64, index int) {
	step := index % m.StepsPerMeasure()
	if step == 0 && m.randomRhythm {
		m.rhythm = m.drawRhythm()
	}

	if id, ok := m.click(step); ok {
		m.player.SchedulePlayback(id, at)
	}

	if len(m.rhythm) > 0 {
		switch m.rhythm[step%len(m.rhythm)] {
		case game.Hit:
			m.player.SchedulePlayback(game.SoundRhythm, at)
		case game.AccentHit:
			m.player.SchedulePlayback(game.SoundRhythmAccent, at)
		}
	}
}

// click picks the metronome sample for a step of the measure.
func (m *Metronome) click(step int) (game.SoundID, bool) {
	if !m.sub.Plays(step) {
		return "", false
	}
	if step%game.SixteenthsPerBeat != 0 {
		return game.SoundTick, true
	}
	switch m.states[step/game.SixteenthsPerBeat] {
	case game.Accent:
		return game.SoundAccent, true
	case game.Tick:
		return game.SoundTick, true
	}
	return "", false
}

func (m *Metronome) drawRhythm() []game.Level {
	track := make([]game.Level, m.StepsPerMeasure())
	for i := range track {
		r := m.rnd.Float64()
		switch {
		case !m.rhythmAccents && r < 0.5:
			track[i] = game.Hit
		case !m.rhythmAccents:
			track[i] = game.Rest
		case r < 0.6:
			track[i] = game.Rest
		case r < 0.9:
			track[i] = game.Hit
		default:
			track[i] = game.AccentHit
		}
	}
	return track
}

func (m *Metronome) SetSubdivision(sub game.Subdivision) { m.sub = sub }

func (m *Metronome) Subdivision() game.Subdivision { return m.sub }

// SetBeatsPerMeasure clamps n and restores the default beat states.
func (m *Metronome) SetBeatsPerMeasure(n int) {
	m.beats = game.ClampBeatsPerMeasure(n)
	m.states = game.DefaultBeatStates(m.beats)
}

func (m *Metronome) BeatsPerMeasure() int { return m.beats }

// SetBeatState changes how one beat is voiced. Out of range beats are ignored.
func (m *Metronome) SetBeatState(beat int, state game.BeatState) {
	if beat < 0 || beat >= len(m.states) {
		return
	}
	m.states[beat] = state
}

func (m *Metronome) SetRhythm(track []game.Level) { m.rhythm = track }

func (m *Metronome) Cursor() Cursor { return m.cursor }
