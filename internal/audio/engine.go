// Package audio plays scheduled samples through the speaker and keeps the
// session clock in step with the audio it produces.
package audio

import (
	"sync"
	"time"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const DefaultSampleRate beep.SampleRate = 44100

type Engine struct {
	*Mixer

	format beep.Format
	log    logrus.FieldLogger

	mu     sync.RWMutex
	sounds map[game.SoundID]*beep.Buffer
}

func New(rate beep.SampleRate, log logrus.FieldLogger) *Engine {
	if rate == 0 {
		rate = DefaultSampleRate
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		Mixer:  NewMixer(rate),
		format: beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2},
		log:    log.WithField("component", "audio"),
		sounds: map[game.SoundID]*beep.Buffer{},
	}
}

// Start opens the speaker and hands it the mixer. The buffer bounds how far
// the clock can lag behind what is heard.
func (e *Engine) Start(buffer time.Duration) error {
	if err := speaker.Init(e.format.SampleRate, e.format.SampleRate.N(buffer)); err != nil {
		return errors.Wrap(err, "unable to open speaker")
	}
	speaker.Play(e.Mixer)
	e.log.WithFields(logrus.Fields{
		"rate":   e.format.SampleRate,
		"buffer": buffer,
	}).Info("speaker started")
	return nil
}

func (e *Engine) Format() beep.Format { return e.format }

// Bind makes a decoded sound playable under id.
func (e *Engine) Bind(id game.SoundID, buf *beep.Buffer) {
	e.mu.Lock()
	e.sounds[id] = buf
	e.mu.Unlock()
}

func (e *Engine) Bound(id game.SoundID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.sounds[id]
	return ok
}

// SchedulePlayback queues the sound to start at the clock time at. An unbound
// id plays nothing.
func (e *Engine) SchedulePlayback(id game.SoundID, at float64) {
	e.mu.RLock()
	buf, ok := e.sounds[id]
	e.mu.RUnlock()
	if !ok {
		return
	}
	e.Mixer.Schedule(buf.Streamer(0, buf.Len()), at)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
