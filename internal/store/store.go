package store

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

// Settings are the preferences restored with --restore. They are the knobs a
// player changes between sessions, never a session or its score.
type Settings struct {
	BPM             int    `json:"bpm"`
	Mode            string `json:"mode"`
	Metronome       string `json:"metronome"`
	BeatsPerMeasure int    `json:"beats"`
	Input           string `json:"input"`
	Shape           string `json:"shape"`
	Highlight       bool   `json:"highlight"`
	Hidden          bool   `json:"hidden"`
}

type Store interface {
	Save(profile string, s Settings) error
	Load(profile string) (Settings, bool, error)
	Close() error
}

type DefaultStore struct {
	db *sql.DB
}

func Open(path string) (*DefaultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}

	initStatement := `
	create table if not exists prefs
	  (
		  id integer not null primary key,
		  profile text not null unique,
		  settings blob
	  );
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return nil, errors.Wrap(err, "unable to create prefs table")
	}
	return &DefaultStore{db: db}, nil
}

func (s *DefaultStore) Close() error {
	return s.db.Close()
}

func (s *DefaultStore) Save(profile string, settings Settings) error {
	data, err := json.Marshal(settings)
	if nil != err {
		return errors.Wrap(err, "unable to marshal settings")
	}
	_, err = s.db.Exec(`insert into prefs(profile, settings) values(?, ?)
		on conflict(profile) do update set settings = excluded.settings`, profile, data)
	if nil != err {
		return errors.Wrapf(err, "unable to save profile %s", profile)
	}
	return nil
}

// Load returns false when the profile was never saved.
func (s *DefaultStore) Load(profile string) (Settings, bool, error) {
	var settings Settings
	var data []byte
	err := s.db.QueryRow("select settings from prefs where profile = ?", profile).Scan(&data)
	if err == sql.ErrNoRows {
		return settings, false, nil
	}
	if nil != err {
		return settings, false, errors.Wrapf(err, "unable to load profile %s", profile)
	}
	if err := json.Unmarshal(data, &settings); nil != err {
		return settings, false, errors.Wrapf(err, "unable to unmarshal profile %s", profile)
	}
	return settings, true, nil
}
