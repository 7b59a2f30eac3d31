package config

import (
	"testing"
	"time"

	"git.lost.host/meutraa/rhythm/internal/game"
	"git.lost.host/meutraa/rhythm/internal/store"
	"github.com/sirupsen/logrus"
)

func TestDefaults(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.BPM != 120 || c.Mode != game.Eighth || c.Metronome != game.SubdivisionQuarter {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.BeatsPerMeasure != 4 || c.Input != game.InputTouch || c.Shape != game.Circle {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.Fall != 2 || c.Lookahead != 2 || c.AudioLookahead != 0.1 || c.Countdown != 3 {
		t.Fatalf("unexpected timing defaults %+v", c)
	}
	if c.LogLevel != logrus.InfoLevel || c.TickPeriod != 16*time.Millisecond {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.Explicit("bpm") {
		t.Fatal("a default is not explicit")
	}
	if c.RestorePrefs {
		t.Fatal("preferences are only restored on request")
	}
}

var clampTests = map[string]int{
	"10":  40,
	"40":  40,
	"133": 133,
	"240": 240,
	"999": 240,
}

func TestClamping(t *testing.T) {
	for in, expected := range clampTests {
		c, err := Parse([]string{"--bpm", in, "--beats", in})
		if err != nil {
			t.Fatal(err)
		}
		if c.BPM != expected {
			t.Errorf("bpm %s: expected %d, got %d", in, expected, c.BPM)
		}
		if c.BeatsPerMeasure < 1 || c.BeatsPerMeasure > 16 {
			t.Errorf("beats %s: got %d", in, c.BeatsPerMeasure)
		}
	}
}

func TestFlags(t *testing.T) {
	c, err := Parse([]string{
		"-b", "90", "-m", "binary", "-M", "sixteenth", "--beats", "3",
		"--beat-states", "a s t", "--rhythm", "X..x", "-i", "midi",
		"--shape", "bar", "--highlight", "--seed", "42", "--tick-period", "1s",
		"--log-level", "debug",
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.BPM != 90 || c.Mode != game.Binary || c.Metronome != game.SubdivisionSixteenth {
		t.Fatalf("unexpected %+v", c)
	}
	if len(c.BeatStates) != 3 || c.BeatStates[1] != game.Silent {
		t.Fatalf("unexpected beat states %v", c.BeatStates)
	}
	if len(c.Rhythm) != 12 || c.Rhythm[0] != game.AccentHit || c.Rhythm[4] != game.AccentHit {
		t.Fatalf("rhythm should repeat to fill 12 steps, got %v", c.Rhythm)
	}
	if c.Input != game.InputMIDI || c.Shape != game.Bar || !c.Highlight || c.Seed != 42 {
		t.Fatalf("unexpected %+v", c)
	}
	if c.TickPeriod != 50*time.Millisecond {
		t.Fatalf("tick period must stay inside the audio lookahead, got %v", c.TickPeriod)
	}
	if c.LogLevel != logrus.DebugLevel || !c.Explicit("bpm") || !c.Explicit("mode") {
		t.Fatalf("unexpected %+v", c)
	}
}

func TestInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"--mode", "waltz"},
		{"--input", "theremin"},
		{"--beats", "3", "--beat-states", "atta"},
		{"--log-level", "loud"},
		{"--bpm", "fast"},
	} {
		if _, err := Parse(args); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestRestore(t *testing.T) {
	c, err := Parse([]string{"--bpm", "100", "--restore"})
	if err != nil {
		t.Fatal(err)
	}
	if !c.RestorePrefs {
		t.Fatal("--restore should ask for saved preferences")
	}
	saved := store.Settings{
		BPM: 180, Mode: "mixed", Metronome: "off", BeatsPerMeasure: 7,
		Input: "mic", Shape: "bar", Highlight: true, Hidden: true,
	}
	if err := c.Restore(saved); err != nil {
		t.Fatal(err)
	}
	if c.BPM != 100 {
		t.Fatalf("an explicit flag must win, got %d", c.BPM)
	}
	if c.Mode != game.Mixed || c.Metronome != game.SubdivisionOff || c.BeatsPerMeasure != 7 {
		t.Fatalf("unexpected %+v", c)
	}
	if c.Input != game.InputMic || c.Shape != game.Bar || !c.Highlight || !c.Hidden {
		t.Fatalf("unexpected %+v", c)
	}

	s := c.Settings()
	saved.BPM = 100
	if s != saved {
		t.Log("Settings", s)
		t.Log("Expected", saved)
		t.Fail()
	}

	if err := c.Restore(store.Settings{Mode: "waltz"}); err == nil {
		t.Fatal("corrupt settings should fail")
	}
}
