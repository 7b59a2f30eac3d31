package score

import (
	"git.lost.host/meutraa/rhythm/internal/game"
)

type Scorer interface {
	// Match the trigger to the nearest unresolved note and judge it
	TryHit(now float64) (game.Judgement, bool)

	// Miss every note left unstruck for too long
	ResolveTimeouts(now float64) int

	Score() game.Score
	Stats() Stats

	// Forget the score for a new session
	Reset()
}

// Stats describe the signed timing error of input-resolved notes, in seconds.
type Stats struct {
	Hits       uint64
	Mean       float64
	Stdev      float64
	TotalError float64 // Sum of absolute errors
}
