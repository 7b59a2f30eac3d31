package parser

import (
	"strings"
	"unicode"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/pkg/errors"
)

type DefaultParser struct{}

// X: Accented hit
// x: Hit (also o, 1)
// .: Rest (also -, 0)
// Whitespace and | are separators and ignored

func (p *DefaultParser) mapToLevel(ch rune) (game.Level, bool) {
	switch ch {
	case 'X', '2':
		return game.AccentHit, true
	case 'x', 'o', '1':
		return game.Hit, true
	case '.', '-', '0':
		return game.Rest, true
	}
	return game.Rest, false
}

// A: Accent
// T: Tick (also x, 1)
// S: Silent (also ., -, 0)

func (p *DefaultParser) mapToBeatState(ch rune) (game.BeatState, bool) {
	switch ch {
	case 'A', 'a', '2':
		return game.Accent, true
	case 'T', 't', 'x', '1':
		return game.Tick, true
	case 'S', 's', '.', '-', '0':
		return game.Silent, true
	}
	return game.Silent, false
}

func isSeparator(ch rune) bool {
	return unicode.IsSpace(ch) || ch == '|' || ch == ','
}

// ParseRhythm reads cells up to steps. A shorter track is repeated to fill
// the measure, as a one-beat pattern would be.
func (p *DefaultParser) ParseRhythm(s string, steps int) ([]game.Level, error) {
	cells := []game.Level{}
	for i, ch := range strings.TrimSpace(s) {
		if isSeparator(ch) {
			continue
		}
		level, ok := p.mapToLevel(ch)
		if !ok {
			return nil, errors.Errorf("invalid rhythm cell %q at %d", ch, i)
		}
		cells = append(cells, level)
	}
	if len(cells) == 0 {
		return nil, errors.New("empty rhythm track")
	}
	if len(cells) > steps {
		return nil, errors.Errorf("rhythm track has %d cells, measure has %d", len(cells), steps)
	}
	out := make([]game.Level, steps)
	for i := range out {
		out[i] = cells[i%len(cells)]
	}
	return out, nil
}

func (p *DefaultParser) ParseBeatStates(s string, beats int) ([]game.BeatState, error) {
	states := []game.BeatState{}
	for i, ch := range strings.TrimSpace(s) {
		if isSeparator(ch) {
			continue
		}
		state, ok := p.mapToBeatState(ch)
		if !ok {
			return nil, errors.Errorf("invalid beat state %q at %d", ch, i)
		}
		states = append(states, state)
	}
	if len(states) != beats {
		return nil, errors.Errorf("got %d beat states for %d beats", len(states), beats)
	}
	return states, nil
}
