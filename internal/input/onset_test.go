package input

import (
	"context"
	"io/ioutil"
	"testing"
	"time"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/faiface/beep"
	"github.com/sirupsen/logrus"
)

// capture plays back one peak value per 256 frame window.
func capture(peaks ...float64) beep.Streamer {
	i := 0
	return beep.Take(len(peaks)*DefaultWindow, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			v := 0.0
			if (i % DefaultWindow) == 100 {
				v = -peaks[i/DefaultWindow]
			}
			samples[j] = [2]float64{v, v / 2}
			i++
		}
		return len(samples), true
	}))
}

func TestOnsetRefractory(t *testing.T) {
	log := logrus.New()
	log.SetOutput(ioutil.Discard)

	// 256 frames at 8kHz is 32ms, so a strike blocks the next three windows
	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	window := 0
	o := NewOnset(format, func() float64 { return float64(window) }, log)

	s := capture(0.9, 0.9, 0.1, 0.9, 0.9, 0.2, 0.3, 0.5, 0.38, 0.4)
	counted := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		window++
		return n, ok
	})

	triggers := []game.Trigger{}
	err := o.Run(context.Background(), counted, func(tr game.Trigger) bool {
		triggers = append(triggers, tr)
		return true
	})
	if err != nil {
		t.Fatal(err)
	}

	// Window 0 strikes, 1 and 3 fall inside the refractory time, 4 is 128ms
	// after 0. Window 7 is 96ms after 4, window 9 is 160ms after it.
	expected := []float64{1, 5, 10}
	if len(triggers) != len(expected) {
		t.Fatalf("expected %d triggers, got %v", len(expected), triggers)
	}
	for i, tr := range triggers {
		if tr.At != expected[i] {
			t.Fatalf("trigger %d stamped %v, expected %v", i, tr.At, expected[i])
		}
	}
}

func TestOnsetStopsOnContext(t *testing.T) {
	log := logrus.New()
	log.SetOutput(ioutil.Discard)
	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	o := NewOnset(format, func() float64 { return 0 }, log)

	silence := beep.Silence(-1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := o.Run(ctx, silence, func(game.Trigger) bool { return true }); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
