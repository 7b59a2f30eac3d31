// Package config is the command line surface. Out of range numbers are
// clamped, never rejected.
package config

import (
	"time"

	"git.lost.host/meutraa/rhythm/internal/game"
	"git.lost.host/meutraa/rhythm/internal/parser"
	"git.lost.host/meutraa/rhythm/internal/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

type Config struct {
	BPM             int
	Mode            game.RhythmMode
	Metronome       game.Subdivision
	BeatsPerMeasure int
	BeatStates      []game.BeatState
	Rhythm          []game.Level
	RandomRhythm    bool
	RhythmAccents   bool

	Input      game.InputMode
	MicSource  string
	MIDIDevice string

	Fall           float64 // Seconds a note is visible before its target
	Lookahead      float64
	AudioLookahead float64
	FramePeriod    time.Duration
	TickPeriod     time.Duration
	Countdown      int
	BarRow         int

	Shape     game.Shape
	Highlight bool
	Hidden    bool

	Samples map[game.SoundID]string
	Seed    uint64 // Zero seeds from the time
	OSC     string

	Prefs        string
	RestorePrefs bool

	LogLevel logrus.Level
	LogFile  string

	// Flags given on the command line, which a restore must not override
	explicit map[string]bool
}

type flags struct {
	app      *kingpin.Application
	explicit map[string]bool
}

func (f *flags) flag(name, help string) *kingpin.FlagClause {
	return f.app.Flag(name, help).Action(func(*kingpin.ParseContext) error {
		f.explicit[name] = true
		return nil
	})
}

// Parse reads args, without the program name, into a Config.
func Parse(args []string) (*Config, error) {
	f := &flags{
		app:      kingpin.New("rhythm", "Rhythm reading trainer: strike falling notes on time."),
		explicit: map[string]bool{},
	}
	f.app.Version(Version)

	var (
		bpm            = f.flag("bpm", "Tempo in beats per minute (40-240)").Default("120").Short('b').Int()
		mode           = f.flag("mode", "Rhythm mode: eighth, sixteenth, mixed, permutation, binary").Default("eighth").Short('m').String()
		metronome      = f.flag("metronome", "Metronome clicks: off, quarter, eighth, sixteenth").Default("quarter").Short('M').String()
		beats          = f.flag("beats", "Metronome beats per measure (1-16)").Default("4").Int()
		beatStates     = f.flag("beat-states", "Metronome voice per beat, A accent, T tick, S silent").String()
		rhythm         = f.flag("rhythm", "16th rhythm track, X accent, x hit, . rest").String()
		randomRhythm   = f.flag("random-rhythm", "Draw a new rhythm track every measure").Bool()
		rhythmAccents  = f.flag("rhythm-accents", "Random rhythm tracks may contain accents").Bool()
		input          = f.flag("input", "Strike source: touch, mic, midi").Default("touch").Short('i').String()
		micSource      = f.flag("mic-source", "Wav stream to listen to in mic mode").Default("/dev/stdin").String()
		midiDevice     = f.flag("midi-device", "MIDI input name to listen to in midi mode").String()
		fall           = f.flag("fall", "Seconds a note takes to reach the hit line").Default("2s").Duration()
		lookahead      = f.flag("lookahead", "How far ahead notes are scheduled").Default("2s").Duration()
		audioLookahead = f.flag("audio-lookahead", "How far ahead clicks are queued").Default("100ms").Duration()
		framePeriod    = f.flag("frame-period", "Render frame period").Default("16ms").Short('p').Duration()
		tickPeriod     = f.flag("tick-period", "Scheduling period, must be shorter than both lookaheads").Default("16ms").Duration()
		countdown      = f.flag("countdown", "Counts before resuming from a pause").Default("3").Int()
		barRow         = f.flag("bar-row", "Console row, from the bottom, to render the hit bar").Default("8").Int()
		shape          = f.flag("shape", "Target shape: circle, bar").Default("circle").String()
		highlight      = f.flag("highlight", "Accent notes on the first beat of a measure").Bool()
		hidden         = f.flag("hidden", "Hide notes in the lower half of the lane").Bool()
		accentSample   = f.flag("accent-sample", "Sample for accented clicks (wav, mp3, ogg)").String()
		tickSample     = f.flag("tick-sample", "Sample for clicks").String()
		clickSample    = f.flag("click-sample", "Sample played on a matched strike").String()
		seed           = f.flag("seed", "Random seed, 0 for a fresh one").Uint64()
		osc            = f.flag("osc", "Send events as OSC to host:port").String()
		prefs          = f.flag("prefs", "Preference database").Default("./rhythm.db").String()
		restore        = f.flag("restore", "Start from the last saved preferences").Bool()
		logLevel       = f.flag("log-level", "Log level").Default("info").Enum("trace", "debug", "info", "warn", "error")
		logFile        = f.flag("log-file", "Log file, the terminal is busy drawing").Default("./rhythm.log").String()
	)

	if _, err := f.app.Parse(args); err != nil {
		return nil, errors.Wrap(err, "unable to parse arguments")
	}

	c := &Config{
		BPM:             game.ClampBPM(*bpm),
		BeatsPerMeasure: game.ClampBeatsPerMeasure(*beats),
		RandomRhythm:    *randomRhythm,
		RhythmAccents:   *rhythmAccents,
		MicSource:       *micSource,
		MIDIDevice:      *midiDevice,
		Fall:            positive(fall.Seconds(), 2),
		Lookahead:       positive(lookahead.Seconds(), 2),
		AudioLookahead:  positive(audioLookahead.Seconds(), 0.1),
		FramePeriod:     *framePeriod,
		TickPeriod:      *tickPeriod,
		Countdown:       clamp(*countdown, 0, 10),
		BarRow:          clamp(*barRow, 1, 100),
		Highlight:       *highlight,
		Hidden:          *hidden,
		Samples: map[game.SoundID]string{
			game.SoundAccent: *accentSample,
			game.SoundTick:   *tickSample,
			game.SoundClick:  *clickSample,
		},
		Seed:         *seed,
		OSC:          *osc,
		Prefs:        *prefs,
		RestorePrefs: *restore,
		LogFile:      *logFile,
		explicit:     f.explicit,
	}

	var err error
	if c.Mode, err = game.ParseRhythmMode(*mode); err != nil {
		return nil, err
	}
	if c.Metronome, err = game.ParseSubdivision(*metronome); err != nil {
		return nil, err
	}
	if c.Input, err = game.ParseInputMode(*input); err != nil {
		return nil, err
	}
	if c.Shape, err = game.ParseShape(*shape); err != nil {
		return nil, err
	}
	if c.LogLevel, err = logrus.ParseLevel(*logLevel); err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}

	p := &parser.DefaultParser{}
	if *beatStates != "" {
		if c.BeatStates, err = p.ParseBeatStates(*beatStates, c.BeatsPerMeasure); err != nil {
			return nil, err
		}
	}
	if *rhythm != "" {
		steps := c.BeatsPerMeasure * game.SixteenthsPerBeat
		if c.Rhythm, err = p.ParseRhythm(*rhythm, steps); err != nil {
			return nil, err
		}
	}

	// A tick gap beyond either horizon makes events late
	if limit := time.Duration(c.AudioLookahead * float64(time.Second) / 2); c.TickPeriod <= 0 || c.TickPeriod > limit {
		c.TickPeriod = limit
	}
	if c.FramePeriod <= 0 {
		c.FramePeriod = 16 * time.Millisecond
	}
	return c, nil
}

// Explicit reports whether a flag was given on the command line.
func (c *Config) Explicit(name string) bool { return c.explicit[name] }

// Settings are the preferences worth keeping between runs.
func (c *Config) Settings() store.Settings {
	return store.Settings{
		BPM:             c.BPM,
		Mode:            c.Mode.String(),
		Metronome:       c.Metronome.String(),
		BeatsPerMeasure: c.BeatsPerMeasure,
		Input:           string(c.Input),
		Shape:           c.Shape.String(),
		Highlight:       c.Highlight,
		Hidden:          c.Hidden,
	}
}

// Restore applies saved settings to everything not given on the command line.
// Saved values pass through the same clamps and parsers as flags.
func (c *Config) Restore(s store.Settings) error {
	if !c.Explicit("bpm") && s.BPM != 0 {
		c.BPM = game.ClampBPM(s.BPM)
	}
	if !c.Explicit("beats") && s.BeatsPerMeasure != 0 {
		beats := game.ClampBeatsPerMeasure(s.BeatsPerMeasure)
		if beats != c.BeatsPerMeasure {
			// States and rhythm were sized for the old measure
			c.BeatStates = nil
			c.Rhythm = nil
		}
		c.BeatsPerMeasure = beats
	}
	if !c.Explicit("highlight") {
		c.Highlight = s.Highlight
	}
	if !c.Explicit("hidden") {
		c.Hidden = s.Hidden
	}

	var err error
	if !c.Explicit("mode") && s.Mode != "" {
		if c.Mode, err = game.ParseRhythmMode(s.Mode); err != nil {
			return errors.Wrap(err, "saved mode")
		}
	}
	if !c.Explicit("metronome") && s.Metronome != "" {
		if c.Metronome, err = game.ParseSubdivision(s.Metronome); err != nil {
			return errors.Wrap(err, "saved metronome")
		}
	}
	if !c.Explicit("input") && s.Input != "" {
		if c.Input, err = game.ParseInputMode(s.Input); err != nil {
			return errors.Wrap(err, "saved input")
		}
	}
	if !c.Explicit("shape") && s.Shape != "" {
		if c.Shape, err = game.ParseShape(s.Shape); err != nil {
			return errors.Wrap(err, "saved shape")
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func positive(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}
