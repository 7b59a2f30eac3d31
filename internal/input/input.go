// Package input turns key presses, microphone onsets and MIDI pads into
// strikes stamped on the session clock.
package input

import "git.lost.host/meutraa/rhythm/internal/game"

// Stamp reads the session clock. It must be safe to call from any goroutine.
type Stamp func() float64

// Emit hands a strike to the session driver without blocking.
type Emit func(game.Trigger) bool
