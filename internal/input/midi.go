package input

import (
	"strings"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Through ports never carry a player's pads.
var excludedPorts = []string{"Midi Through", "Through Port", "Dummy"}

// MIDI strikes on every note on, from any channel and key.
type MIDI struct {
	drv  *rtmididrv.Driver
	in   drivers.In
	stop func()
	log  logrus.FieldLogger
}

// OpenMIDI listens on the first input whose name contains device, or the only
// usable input when device is empty.
func OpenMIDI(device string, stamp Stamp, emit Emit, log logrus.FieldLogger) (*MIDI, error) {
	log = log.WithField("component", "midi")

	drv, err := rtmididrv.New()
	if err != nil {
		return nil, errors.Wrap(err, "unable to start rtmidi")
	}
	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, errors.Wrap(err, "unable to list midi inputs")
	}

	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	i, ok := pickInput(names, device)
	if !ok {
		drv.Close()
		return nil, errors.Errorf("no midi input matches %q among %v", device, names)
	}

	in := ins[i]
	if err := in.Open(); err != nil {
		drv.Close()
		return nil, errors.Wrapf(err, "unable to open %s", names[i])
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		var ch, key, vel uint8
		if msg.GetNoteStart(&ch, &key, &vel) {
			at := stamp()
			log.WithFields(logrus.Fields{"key": key, "vel": vel}).Debug("pad")
			if !emit(game.Trigger{At: at}) {
				log.Warn("pad dropped")
			}
		}
	}, midi.HandleError(func(err error) {
		log.WithError(err).Warn("listener error")
	}))
	if err != nil {
		in.Close()
		drv.Close()
		return nil, errors.Wrapf(err, "unable to listen to %s", names[i])
	}

	log.WithField("device", names[i]).Info("connected")
	return &MIDI{drv: drv, in: in, stop: stop, log: log}, nil
}

func (m *MIDI) Close() error {
	m.stop()
	err := m.in.Close()
	m.drv.Close()
	return errors.Wrap(err, "unable to close midi input")
}

func pickInput(names []string, want string) (int, bool) {
	usable := []int{}
	for i, name := range names {
		if !matchesAny(name, excludedPorts) {
			usable = append(usable, i)
		}
	}
	if want == "" {
		if len(usable) == 1 {
			return usable[0], true
		}
		return 0, false
	}
	for _, i := range usable {
		if containsCI(names[i], want) {
			return i, true
		}
	}
	return 0, false
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if containsCI(name, p) {
			return true
		}
	}
	return false
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
