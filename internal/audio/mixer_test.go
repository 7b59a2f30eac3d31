package audio

import (
	"io/ioutil"
	"math"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/faiface/beep"
	"github.com/sirupsen/logrus"
)

// ones is a voice of n frames at full scale.
func ones(n int) beep.Streamer {
	return beep.Take(n, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	}))
}

func frozenMixer(rate beep.SampleRate) *Mixer {
	m := NewMixer(rate)
	t := time.Unix(0, 0)
	m.now = func() time.Time { return t }
	return m
}

func TestVoiceStartsOnScheduledFrame(t *testing.T) {
	m := frozenMixer(1000)
	m.Schedule(ones(5), 0.010)

	out := make([][2]float64, 8)
	m.Stream(out)
	for i, s := range out {
		if s[0] != 0 {
			t.Fatalf("frame %d sounded before the voice start", i)
		}
	}

	m.Stream(out)
	for i, s := range out {
		expected := 0.0
		if i >= 2 && i < 7 {
			expected = 1
		}
		if s[0] != expected {
			t.Fatalf("frame %d: expected %v, got %v", 8+i, expected, s[0])
		}
	}
	if len(m.voices) != 0 {
		t.Fatalf("finished voice was kept")
	}
}

func TestVoicesMix(t *testing.T) {
	m := frozenMixer(1000)
	m.Schedule(ones(4), 0)
	m.Schedule(ones(4), 0.002)

	out := make([][2]float64, 8)
	m.Stream(out)
	expected := []float64{1, 1, 2, 2, 1, 1, 0, 0}
	for i := range expected {
		if out[i][0] != expected[i] || out[i][1] != expected[i] {
			t.Fatalf("frame %d: expected %v, got %v", i, expected[i], out[i])
		}
	}
}

func TestLateVoiceStartsWithNextChunk(t *testing.T) {
	m := frozenMixer(1000)
	out := make([][2]float64, 10)
	m.Stream(out)
	m.Schedule(ones(1), 0.002)
	m.Stream(out)
	if out[0][0] != 1 {
		t.Fatalf("late voice should start immediately, got %v", out[:2])
	}
}

func TestSuspendStopsTime(t *testing.T) {
	m := frozenMixer(1000)
	m.Schedule(ones(1), 0.015)

	out := make([][2]float64, 10)
	m.Stream(out)
	now := m.Now()
	if err := m.Suspend(); err != nil {
		t.Fatal(err)
	}
	if err := m.Suspend(); err == nil {
		t.Fatal("suspending twice should fail")
	}

	for i := 0; i < 5; i++ {
		m.Stream(out)
		for _, s := range out {
			if s[0] != 0 {
				t.Fatal("suspended mixer played a voice")
			}
		}
	}
	if m.Frames() != 10 {
		t.Fatalf("suspended mixer counted frames: %d", m.Frames())
	}
	if m.Now() != now {
		t.Fatalf("clock moved while suspended: %v -> %v", now, m.Now())
	}

	if err := m.Resume(); err != nil {
		t.Fatal(err)
	}
	m.Stream(out)
	if out[5][0] != 1 {
		t.Fatalf("voice should sound on frame 15 after resuming, got %v", out)
	}
}

func TestResumeContinuesFromFrozenTime(t *testing.T) {
	m := NewMixer(1000)
	wall := time.Unix(0, 0)
	m.now = func() time.Time { return wall }

	out := make([][2]float64, 100)
	m.Stream(out)
	wall = wall.Add(10 * time.Millisecond)
	before := m.Now()
	if err := m.Suspend(); err != nil {
		t.Fatal(err)
	}
	wall = wall.Add(5 * time.Second)
	if err := m.Resume(); err != nil {
		t.Fatal(err)
	}
	if now := m.Now(); math.Abs(now-before) > 1e-9 {
		t.Fatalf("clock jumped across the pause: %v -> %v", before, now)
	}
	wall = wall.Add(20 * time.Millisecond)
	if now := m.Now(); math.Abs(now-(before+0.020)) > 1e-9 {
		t.Fatalf("expected %v after resuming, got %v", before+0.020, now)
	}
}

func TestNowInterpolatesWithinChunk(t *testing.T) {
	m := NewMixer(1000)
	wall := time.Unix(0, 0)
	m.now = func() time.Time { return wall }

	out := make([][2]float64, 100)
	m.Stream(out)
	m.Stream(out)
	if now := m.Now(); now != 0.1 {
		t.Fatalf("expected 0.1 at the chunk start, got %v", now)
	}
	wall = wall.Add(40 * time.Millisecond)
	if now := m.Now(); now < 0.139 || now > 0.141 {
		t.Fatalf("expected 0.14, got %v", now)
	}
	wall = wall.Add(time.Second)
	if now := m.Now(); now != 0.2 {
		t.Fatalf("interpolation must stop at the chunk end, got %v", now)
	}
	// A new chunk never moves the clock backwards
	m.Stream(out)
	wall = wall.Add(time.Millisecond)
	if now := m.Now(); now < 0.2 {
		t.Fatalf("clock went backwards: %v", now)
	}
}

func TestEngineSounds(t *testing.T) {
	log := logrus.New()
	log.SetOutput(ioutil.Discard)
	e := New(1000, log)

	// Unbound ids are silent
	e.SchedulePlayback(game.SoundAccent, 0)
	if len(e.voices) != 0 {
		t.Fatal("unbound sound was scheduled")
	}

	missing := filepath.Join(t.TempDir(), "accent.wav")
	errs := e.LoadSounds(map[game.SoundID]string{game.SoundAccent: missing})
	if len(errs) != 1 {
		t.Fatalf("expected one load error, got %v", errs)
	}
	if e.Bound(game.SoundAccent) {
		t.Fatal("a failed sample must stay unbound")
	}
	for id := range DefaultTones {
		if id != game.SoundAccent && !e.Bound(id) {
			t.Fatalf("%v should be synthesized", id)
		}
	}

	e.SchedulePlayback(game.SoundTick, 0)
	if len(e.voices) != 1 {
		t.Fatalf("expected a scheduled voice, got %d", len(e.voices))
	}
}

func TestSynthesizeLength(t *testing.T) {
	format := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	buf := Synthesize(format, Tone{Frequency: 440, Duration: 0.05, Gain: 0.5})
	if buf.Len() != 400 {
		t.Fatalf("expected 400 frames, got %d", buf.Len())
	}
}
