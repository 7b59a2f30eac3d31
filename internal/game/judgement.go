package game

import "fmt"

type Outcome uint8

const (
	Unresolved Outcome = iota
	Perfect
	Good
	Miss
)

func (o Outcome) String() string {
	switch o {
	case Unresolved:
		return "unresolved"
	case Perfect:
		return "perfect"
	case Good:
		return "good"
	case Miss:
		return "miss"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// Window is the upper bound, exclusive, of an outcome's timing error in seconds.
type Window struct {
	Outcome Outcome
	Within  float64
}

// Windows are checked in order; an error at or beyond the last one matches no note.
var Windows = []Window{
	{Outcome: Perfect, Within: 0.070},
	{Outcome: Good, Within: 0.200},
	{Outcome: Miss, Within: 0.300},
}

// TimeoutAfter is how long past its target an unstruck note waits before it is missed.
const TimeoutAfter = 0.200

// Judge classifies an absolute timing error. ok is false when the error is outside
// every window.
func Judge(distance float64) (Outcome, bool) {
	for _, w := range Windows {
		if distance < w.Within {
			return w.Outcome, true
		}
	}
	return Unresolved, false
}

// AcceptanceWindow is the widest error that still matches a note.
func AcceptanceWindow() float64 {
	return Windows[len(Windows)-1].Within
}

// Judgement is the result of matching a trigger against the chart.
type Judgement struct {
	Note    *Note
	Outcome Outcome
	Delta   float64
}

type Score struct {
	Perfect uint64
	Good    uint64
	Miss    uint64
}

func (s *Score) Add(o Outcome) {
	switch o {
	case Perfect:
		s.Perfect++
	case Good:
		s.Good++
	case Miss:
		s.Miss++
	}
}

func (s Score) Total() uint64 {
	return s.Perfect + s.Good + s.Miss
}
