// Package oscsink forwards session events as OSC messages, so a light rig or
// visualiser can follow along.
//
//	/note/spawn   id target shape accent mode
//	/note/resolve id outcome delta byInput
//	/beat         target
//	/score        perfect good miss
package oscsink

import (
	"net"
	"strconv"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/hypebeast/go-osc/osc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Sink struct {
	client *osc.Client
	log    logrus.FieldLogger
	failed bool
}

// New sends to addr, a host:port pair.
func New(addr string, log logrus.FieldLogger) (*Sink, error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid osc address %s", addr)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid osc port %s", p)
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return &Sink{
		client: osc.NewClient(host, port),
		log:    log.WithFields(logrus.Fields{"component": "osc", "addr": addr}),
	}, nil
}

func (s *Sink) NoteSpawned(ev game.NoteSpawned) {
	s.send(osc.NewMessage("/note/spawn",
		int64(ev.ID), ev.Target, ev.Shape.String(), ev.Accent, ev.Mode.String()))
}

func (s *Sink) NoteResolved(ev game.NoteResolved) {
	s.send(osc.NewMessage("/note/resolve",
		int64(ev.ID), ev.Outcome.String(), ev.Delta, ev.ByInput))
}

func (s *Sink) BeatLineSpawned(ev game.BeatLineSpawned) {
	s.send(osc.NewMessage("/beat", ev.Target))
}

func (s *Sink) ScoreChanged(score game.Score) {
	s.send(osc.NewMessage("/score",
		int64(score.Perfect), int64(score.Good), int64(score.Miss)))
}

// send never fails the session. The first error is logged, later ones are not
// until a send succeeds again.
func (s *Sink) send(msg *osc.Message) {
	if err := s.client.Send(msg); err != nil {
		if !s.failed {
			s.log.WithError(err).Warn("unable to send")
		}
		s.failed = true
		return
	}
	s.failed = false
}
