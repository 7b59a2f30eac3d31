package sink

import "git.lost.host/meutraa/rhythm/internal/game"

// Recorder keeps every event it receives, for tests and replays.
type Recorder struct {
	Spawned   []game.NoteSpawned
	Resolved  []game.NoteResolved
	BeatLines []game.BeatLineSpawned
	Scores    []game.Score
}

func (r *Recorder) NoteSpawned(ev game.NoteSpawned)         { r.Spawned = append(r.Spawned, ev) }
func (r *Recorder) NoteResolved(ev game.NoteResolved)       { r.Resolved = append(r.Resolved, ev) }
func (r *Recorder) BeatLineSpawned(ev game.BeatLineSpawned) { r.BeatLines = append(r.BeatLines, ev) }
func (r *Recorder) ScoreChanged(score game.Score)           { r.Scores = append(r.Scores, score) }

// Targets lists the target time of every spawned note.
func (r *Recorder) Targets() []float64 {
	out := make([]float64, len(r.Spawned))
	for i, ev := range r.Spawned {
		out[i] = ev.Target
	}
	return out
}

func (r *Recorder) Reset() {
	*r = Recorder{}
}
