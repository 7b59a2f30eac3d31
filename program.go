package main

import (
	"context"
	"sync/atomic"
	"time"

	"git.lost.host/meutraa/rhythm/internal/audio"
	"git.lost.host/meutraa/rhythm/internal/config"
	"git.lost.host/meutraa/rhythm/internal/game"
	"git.lost.host/meutraa/rhythm/internal/input"
	"git.lost.host/meutraa/rhythm/internal/oscsink"
	"git.lost.host/meutraa/rhythm/internal/pattern"
	"git.lost.host/meutraa/rhythm/internal/render"
	"git.lost.host/meutraa/rhythm/internal/schedule"
	"git.lost.host/meutraa/rhythm/internal/score"
	"git.lost.host/meutraa/rhythm/internal/session"
	"git.lost.host/meutraa/rhythm/internal/sink"
	"git.lost.host/meutraa/rhythm/internal/theme"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

const (
	speakerBuffer = 10 * time.Millisecond
	bpmStep       = 5
)

type Program struct {
	Config *config.Config
	Log    *logrus.Logger

	Renderer render.Renderer
	Theme    theme.Theme

	engine  *audio.Engine
	lane    *render.Lane
	driver  *session.Driver
	closers []func() error

	countdown int32 // Shown while resuming
	resuming  int32
}

func (p *Program) Init() error {
	cfg := p.Config

	// Ensure our Default implementations are used as interfaces
	p.Renderer = render.NewDefaultRenderer()
	p.Theme = theme.NewDefaultTheme()

	p.engine = audio.New(audio.DefaultSampleRate, p.Log)
	p.engine.LoadSounds(cfg.Samples)
	if err := p.engine.Start(speakerBuffer); nil != err {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	p.Log.WithField("seed", seed).Info("starting")

	p.lane = render.NewLane(p.Theme, cfg.Fall, cfg.BarRow, cfg.Hidden)
	sinks := sink.Multi{p.lane}
	boards := sink.Boards{p.lane}
	if cfg.OSC != "" {
		osc, err := oscsink.New(cfg.OSC, p.Log)
		if nil != err {
			p.Log.WithError(err).Warn("osc disabled")
		} else {
			sinks = append(sinks, osc)
			boards = append(boards, osc)
		}
	}

	chart := &game.Chart{}
	metronome := schedule.NewMetronome(schedule.MetronomeOptions{
		Subdivision:     cfg.Metronome,
		BeatsPerMeasure: cfg.BeatsPerMeasure,
		BeatStates:      cfg.BeatStates,
		Rhythm:          cfg.Rhythm,
		RandomRhythm:    cfg.RandomRhythm,
		RhythmAccents:   cfg.RhythmAccents,
		Horizon:         cfg.AudioLookahead,
	}, p.engine, rand.NewSource(seed+1))
	scheduler := schedule.New(schedule.Options{
		BPM:       cfg.BPM,
		Lookahead: cfg.Lookahead,
		Shape:     cfg.Shape,
		Highlight: cfg.Highlight,
	}, pattern.New(cfg.Mode, rand.NewSource(seed)), chart, sinks, metronome, p.Log)
	judge := score.New(chart, sinks, boards, p.Log)

	s := session.New(session.Options{
		Fall:  cfg.Fall,
		Views: []sink.Resetter{p.lane},
	}, p.engine, scheduler, judge, chart, p.engine, p.Log)
	p.driver = session.NewDriver(s, session.DriverOptions{
		TickPeriod: cfg.TickPeriod,
		Countdown:  cfg.Countdown,
	}, p.Log)

	return nil
}

func (p *Program) Deinit() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); nil != err {
			p.Log.WithError(err).Warn("unable to close")
		}
	}
}

// openInput starts the configured strike source. A source that cannot open
// falls back to touch, which the keyboard always provides.
func (p *Program) openInput(ctx context.Context) {
	stamp := input.Stamp(p.engine.Now)
	switch p.Config.Input {
	case game.InputMic:
		capture, format, err := input.OpenCapture(p.Config.MicSource)
		if nil != err {
			p.Log.WithError(err).Warn("microphone unavailable, falling back to touch")
			p.Config.Input = game.InputTouch
			return
		}
		p.closers = append(p.closers, capture.Close)
		onset := input.NewOnset(format, stamp, p.Log)
		go func() {
			if err := onset.Run(ctx, capture, p.driver.Trigger); nil != err && ctx.Err() == nil {
				p.Log.WithError(err).Error("microphone stopped")
			}
		}()
	case game.InputMIDI:
		m, err := input.OpenMIDI(p.Config.MIDIDevice, stamp, p.driver.Trigger, p.Log)
		if nil != err {
			p.Log.WithError(err).Warn("midi unavailable, falling back to touch")
			p.Config.Input = game.InputTouch
			return
		}
		p.closers = append(p.closers, m.Close)
	}
}

func (p *Program) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	driverDone := make(chan error, 1)
	go func() { driverDone <- p.driver.Run(ctx) }()
	defer func() {
		cancel()
		<-driverDone
	}()

	kb, err := input.OpenKeyboard(p.engine.Now, p.Log)
	if nil != err {
		return err
	}
	p.closers = append(p.closers, kb.Close)
	commands := make(chan input.Command, 128)
	go kb.Run(ctx, commands)

	p.openInput(ctx)

	if err := p.Renderer.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		p.Renderer.Deinit()
	}()

	if err := p.driver.Do(ctx, (*session.Session).Start); nil != err {
		return err
	}
	defer p.driver.Do(context.Background(), (*session.Session).Stop)

	return p.renderLoop(ctx, commands)
}

func (p *Program) renderLoop(ctx context.Context, commands <-chan input.Command) error {
	for {
		now := time.Now()
		deadline := now.Add(p.Config.FramePeriod)

		// Handle the commands that occurred so far
		for i := len(commands); i > 0; i-- {
			if quit := p.handle(ctx, <-commands); quit {
				return nil
			}
		}

		if err := p.frame(ctx); nil != err {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(deadline)):
		}
	}
}

func (p *Program) frame(ctx context.Context) error {
	columns, rows, err := p.Renderer.Size()
	if nil != err {
		return err
	}

	var now float64
	hud := render.HUD{
		Input:     p.Config.Input,
		Countdown: int(atomic.LoadInt32(&p.countdown)),
	}
	if err := p.driver.Do(ctx, func(s *session.Session) error {
		now = s.Now()
		hud.State = s.State().String()
		hud.BPM = s.BPM()
		hud.Mode = s.Mode()
		hud.Staged, hud.Pending = s.Staged()
		hud.Stats = s.Stats()
		return nil
	}); nil != err {
		return err
	}

	p.lane.Draw(p.Renderer, now, columns, rows, hud)
	return p.Renderer.Flush()
}

func (p *Program) handle(ctx context.Context, cmd input.Command) bool {
	cfg := p.Config
	do := func(fn func(*session.Session) error) {
		if err := p.driver.Do(ctx, fn); nil != err {
			p.Log.WithError(err).Warn("command failed")
		}
	}

	switch cmd.Action {
	case input.Quit:
		return true
	case input.Strike:
		if cfg.Input == game.InputTouch {
			p.driver.Trigger(game.Trigger{At: cmd.At})
		}
	case input.Pause:
		if !atomic.CompareAndSwapInt32(&p.resuming, 0, 1) {
			return false
		}
		go func() {
			defer atomic.StoreInt32(&p.resuming, 0)
			err := p.driver.Pause(ctx, func(n int) {
				atomic.StoreInt32(&p.countdown, int32(n))
			})
			if nil != err && ctx.Err() == nil {
				p.Log.WithError(err).Warn("unable to pause")
			}
		}()
	case input.Hidden:
		cfg.Hidden = p.lane.ToggleHidden()
	case input.StageMode:
		cfg.Mode = cmd.Mode
		do(func(s *session.Session) error {
			s.StageMode(cmd.Mode)
			return nil
		})
	case input.Faster, input.Slower:
		step := bpmStep
		if cmd.Action == input.Slower {
			step = -bpmStep
		}
		cfg.BPM = game.ClampBPM(cfg.BPM + step)
		bpm := cfg.BPM
		do(func(s *session.Session) error {
			s.SetBPM(bpm)
			return nil
		})
	case input.Metronome:
		cfg.Metronome = (cfg.Metronome + 1) % (game.SubdivisionSixteenth + 1)
		sub := cfg.Metronome
		do(func(s *session.Session) error {
			s.Scheduler().Metronome().SetSubdivision(sub)
			return nil
		})
	case input.Shape:
		cfg.Shape = (cfg.Shape + 1) % (game.Bar + 1)
		shape := cfg.Shape
		do(func(s *session.Session) error {
			s.Scheduler().SetShape(shape)
			return nil
		})
	}
	return false
}
