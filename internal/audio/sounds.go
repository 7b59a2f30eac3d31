package audio

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// Tone is a synthesized stand-in for a sample.
type Tone struct {
	Frequency float64
	Duration  float64
	Gain      float64
}

var DefaultTones = map[game.SoundID]Tone{
	game.SoundAccent:       {Frequency: 880, Duration: 0.05, Gain: 0.5},
	game.SoundTick:         {Frequency: 440, Duration: 0.05, Gain: 0.4},
	game.SoundClick:        {Frequency: 800, Duration: 0.03, Gain: 0.3},
	game.SoundRhythm:       {Frequency: 1200, Duration: 0.03, Gain: 0.3},
	game.SoundRhythmAccent: {Frequency: 1600, Duration: 0.03, Gain: 0.45},
}

// Synthesize renders a sine burst that decays to silence over its duration.
func Synthesize(format beep.Format, tone Tone) *beep.Buffer {
	n := format.SampleRate.N(secondsToDuration(tone.Duration))
	rate := float64(format.SampleRate)
	i := 0
	osc := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			t := float64(i) / rate
			env := math.Exp(-5 * float64(i) / float64(n))
			v := tone.Gain * env * math.Sin(2*math.Pi*tone.Frequency*t)
			samples[j] = [2]float64{v, v}
			i++
		}
		return len(samples), true
	})
	buf := beep.NewBuffer(format)
	buf.Append(beep.Take(n, osc))
	return buf
}

// Load decodes a wav, mp3 or ogg file and resamples it to the engine's rate.
func Load(format beep.Format, path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open sample %s", path)
	}

	var streamer beep.StreamSeekCloser
	var from beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, from, err = wav.Decode(f)
	case ".mp3":
		streamer, from, err = mp3.Decode(f)
	case ".ogg":
		streamer, from, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, errors.Errorf("unsupported sample format %s", path)
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "unable to decode sample %s", path)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(beep.Resample(4, from.SampleRate, format.SampleRate, streamer))
	return buf, nil
}

// LoadSounds binds every sound: the configured file when there is one, a
// synthesized tone otherwise. A file that fails to load leaves its sound
// unbound, so it plays as silence.
func (e *Engine) LoadSounds(files map[game.SoundID]string) []error {
	errs := []error{}
	for id, tone := range DefaultTones {
		path := files[id]
		if path == "" {
			e.Bind(id, Synthesize(e.format, tone))
			continue
		}
		buf, err := Load(e.format, path)
		if err != nil {
			e.log.WithError(err).WithField("sound", id).Warn("sample left unbound")
			errs = append(errs, err)
			continue
		}
		e.Bind(id, buf)
	}
	return errs
}
