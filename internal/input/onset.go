package input

import (
	"context"
	"math"
	"os"
	"time"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultThreshold  = 50.0 / 128
	DefaultWindow     = 256
	DefaultRefractory = 100 * time.Millisecond
)

// Onset is a peak detector over captured audio. A window whose peak exceeds
// Threshold is a strike, unless the previous strike was within Refractory.
type Onset struct {
	Threshold  float64
	Window     int
	Refractory time.Duration

	format beep.Format
	stamp  Stamp
	log    logrus.FieldLogger
}

func NewOnset(format beep.Format, stamp Stamp, log logrus.FieldLogger) *Onset {
	return &Onset{
		Threshold:  DefaultThreshold,
		Window:     DefaultWindow,
		Refractory: DefaultRefractory,
		format:     format,
		stamp:      stamp,
		log:        log.WithField("component", "onset"),
	}
}

// OpenCapture decodes a wav stream, typically a fifo fed by a recorder such as
// `arecord -f S16_LE -t wav`.
func OpenCapture(path string) (beep.StreamCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, errors.Wrapf(err, "unable to open capture source %s", path)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, errors.Wrapf(err, "unable to decode capture source %s", path)
	}
	return s, format, nil
}

// Run reads windows from s until it drains or ctx is done. Refractory time is
// measured in captured frames, so it holds however the stream is buffered.
func (o *Onset) Run(ctx context.Context, s beep.Streamer, emit Emit) error {
	buf := make([][2]float64, o.Window)
	refractory := o.format.SampleRate.N(o.Refractory)

	frames := 0
	last := -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, ok := s.Stream(buf)
		if peak(buf[:n]) > o.Threshold && (last < 0 || frames-last > refractory) {
			last = frames
			if !emit(game.Trigger{At: o.stamp()}) {
				o.log.Warn("onset dropped")
			}
		}
		frames += n
		if !ok {
			if err := s.Err(); err != nil {
				return errors.Wrap(err, "capture stream failed")
			}
			return nil
		}
	}
}

func peak(samples [][2]float64) float64 {
	highest := 0.0
	for _, s := range samples {
		highest = math.Max(highest, math.Max(math.Abs(s[0]), math.Abs(s[1])))
	}
	return highest
}
