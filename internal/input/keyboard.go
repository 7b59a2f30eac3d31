package input

import (
	"context"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Action uint8

const (
	None Action = iota
	Strike
	Pause
	Hidden
	StageMode
	Faster
	Slower
	Metronome
	Shape
	Quit
)

// Command is a key press translated for the program.
type Command struct {
	Action Action
	Mode   game.RhythmMode // For StageMode
	At     float64         // Clock time of the key press
}

var modeKeys = map[rune]game.RhythmMode{
	'1': game.Eighth,
	'2': game.Sixteenth,
	'3': game.Mixed,
	'4': game.Permutation,
	'5': game.Binary,
}

// Map translates a key event. Unknown keys map to None.
func Map(ev keyboard.KeyEvent) Command {
	switch ev.Key {
	case keyboard.KeySpace, keyboard.KeyEnter:
		return Command{Action: Strike}
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Command{Action: Quit}
	case keyboard.KeyArrowUp:
		return Command{Action: Faster}
	case keyboard.KeyArrowDown:
		return Command{Action: Slower}
	}

	if mode, ok := modeKeys[ev.Rune]; ok {
		return Command{Action: StageMode, Mode: mode}
	}
	switch ev.Rune {
	case 'p':
		return Command{Action: Pause}
	case 'h':
		return Command{Action: Hidden}
	case 'm':
		return Command{Action: Metronome}
	case 's':
		return Command{Action: Shape}
	case '+', '=':
		return Command{Action: Faster}
	case '-', '_':
		return Command{Action: Slower}
	case 'q':
		return Command{Action: Quit}
	}
	return Command{}
}

type Keyboard struct {
	keys  <-chan keyboard.KeyEvent
	stamp Stamp
	log   logrus.FieldLogger
}

// OpenKeyboard puts the terminal in raw key mode. Close must be called to
// restore it.
func OpenKeyboard(stamp Stamp, log logrus.FieldLogger) (*Keyboard, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open keyboard")
	}
	return &Keyboard{
		keys:  keys,
		stamp: stamp,
		log:   log.WithField("component", "keyboard"),
	}, nil
}

// Run forwards commands until ctx is done or the keyboard closes.
func (k *Keyboard) Run(ctx context.Context, commands chan<- Command) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-k.keys:
			if !ok {
				return nil
			}
			if ev.Err != nil {
				k.log.WithError(ev.Err).Warn("unable to read key")
				continue
			}
			// Stamp before anything else so queueing does not count as lateness
			at := k.stamp()
			cmd := Map(ev)
			if cmd.Action == None {
				continue
			}
			cmd.At = at
			select {
			case commands <- cmd:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (k *Keyboard) Close() error {
	if err := keyboard.Close(); nil != err {
		return errors.Wrap(err, "unable to close keyboard")
	}
	return nil
}
