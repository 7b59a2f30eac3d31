package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.lost.host/meutraa/rhythm/internal/config"
	"git.lost.host/meutraa/rhythm/internal/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const profile = "last"

func main() {
	if err := run(os.Args[1:]); nil != err {
		logrus.Fatalln(err)
	}
}

func openLog(cfg *config.Config) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if nil != err {
		return nil, nil, errors.Wrapf(err, "unable to open log file %s", cfg.LogFile)
	}
	log.SetOutput(f)
	return log, func() { f.Close() }, nil
}

func run(args []string) error {
	cfg, err := config.Parse(args)
	if nil != err {
		return err
	}

	log, closeLog, err := openLog(cfg)
	if nil != err {
		return err
	}
	defer closeLog()

	prefs, err := store.Open(cfg.Prefs)
	if nil != err {
		log.WithError(err).Warn("preferences will not be kept")
	} else {
		defer prefs.Close()
		if cfg.RestorePrefs {
			saved, ok, err := prefs.Load(profile)
			switch {
			case nil != err:
				log.WithError(err).Warn("unable to restore preferences")
			case ok:
				if err := cfg.Restore(saved); nil != err {
					log.WithError(err).Warn("saved preferences are invalid")
				}
			}
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p := &Program{Config: cfg, Log: log}
	if err := p.Init(); nil != err {
		return err
	}
	defer p.Deinit()

	err = p.Run(ctx)

	if prefs != nil {
		if err := prefs.Save(profile, cfg.Settings()); nil != err {
			log.WithError(err).Warn("unable to save preferences")
		}
	}
	if errors.Cause(err) == context.Canceled {
		return nil
	}
	return err
}
