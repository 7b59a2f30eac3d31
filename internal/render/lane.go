package render

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"git.lost.host/meutraa/rhythm/internal/game"
	"git.lost.host/meutraa/rhythm/internal/score"
	"git.lost.host/meutraa/rhythm/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

const (
	// Linger is how long an element stays on screen past its target.
	Linger = 0.5
	// Flash is how long a struck note stays lit on the hit row.
	Flash = 0.15

	lineWidth = 17
)

// Project places an element on the lane. The hit row is targetY, and an
// element travels the whole of it in fall seconds.
func Project(target, now, targetY, fall float64) float64 {
	speed := targetY / fall
	return targetY - speed*(target-now)
}

// Concealed reports whether hidden mode keeps an unresolved note at y off
// screen: the lower half of the lane must be played by ear.
func Concealed(y, targetY float64) bool {
	return y > targetY/2
}

// HUD is what the lane shows besides notes.
type HUD struct {
	State     string
	Input     game.InputMode
	BPM       int
	Mode      game.RhythmMode
	Staged    game.RhythmMode
	Pending   bool // Staged differs from Mode
	Stats     score.Stats
	Countdown int
}

type element struct {
	target  float64
	shape   game.Shape
	accent  bool
	outcome game.Outcome
	byInput bool
	hitAt   float64
}

type cell struct {
	row, col, width int
}

// Lane is the terminal consumer of session events. Events arrive on the
// session goroutine and frames are drawn on another, so it locks.
type Lane struct {
	mu sync.Mutex

	theme  theme.Theme
	fall   float64
	barRow int
	hidden bool

	notes map[uint64]*element
	lines []float64
	score game.Score
	last  *game.NoteResolved

	drawn []cell
}

func NewLane(th theme.Theme, fall float64, barRow int, hidden bool) *Lane {
	return &Lane{
		theme:  th,
		fall:   fall,
		barRow: barRow,
		hidden: hidden,
		notes:  map[uint64]*element{},
	}
}

func (l *Lane) NoteSpawned(ev game.NoteSpawned) {
	l.mu.Lock()
	l.notes[ev.ID] = &element{target: ev.Target, shape: ev.Shape, accent: ev.Accent}
	l.mu.Unlock()
}

func (l *Lane) NoteResolved(ev game.NoteResolved) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.notes[ev.ID]; ok {
		e.outcome = ev.Outcome
		e.byInput = ev.ByInput
		e.hitAt = e.target + ev.Delta
	}
	l.last = &ev
}

func (l *Lane) BeatLineSpawned(ev game.BeatLineSpawned) {
	l.mu.Lock()
	l.lines = append(l.lines, ev.Target)
	l.mu.Unlock()
}

func (l *Lane) ScoreChanged(s game.Score) {
	l.mu.Lock()
	l.score = s
	l.mu.Unlock()
}

func (l *Lane) ToggleHidden() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hidden = !l.hidden
	return l.hidden
}

// Reset forgets every element, for a new session.
func (l *Lane) Reset() {
	l.mu.Lock()
	l.notes = map[uint64]*element{}
	l.lines = nil
	l.last = nil
	l.score = game.Score{}
	l.mu.Unlock()
}

// Draw renders one frame at clock time now.
func (l *Lane) Draw(r Renderer, now float64, columns, rows int, hud HUD) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Blank the previous frame
	for _, c := range l.drawn {
		r.Fill(c.row, c.col, strings.Repeat(" ", c.width))
	}
	l.drawn = l.drawn[:0]

	hitRow := rows - l.barRow
	if hitRow < 2 {
		return
	}
	targetY := float64(hitRow)
	mid := columns / 2

	put := func(row, col int, msg string) {
		if row < 1 || row > rows || col < 1 {
			return
		}
		r.Fill(row, col, msg)
		l.drawn = append(l.drawn, cell{row: row, col: col, width: lipgloss.Width(msg)})
	}

	// Beat lines under everything else
	kept := l.lines[:0]
	for _, t := range l.lines {
		if now-t > Linger {
			continue
		}
		kept = append(kept, t)
		row := int(math.Round(Project(t, now, targetY, l.fall)))
		put(row, mid-lineWidth/2, l.theme.RenderBeatLine(lineWidth))
	}
	l.lines = kept

	put(hitRow, centered(mid, l.theme.RenderHitField(game.Circle)), l.theme.RenderHitField(game.Circle))

	for id, e := range l.notes {
		if now-e.target > Linger {
			delete(l.notes, id)
			continue
		}
		var glyph string
		row := int(math.Round(Project(e.target, now, targetY, l.fall)))
		switch {
		case e.byInput:
			if now-e.hitAt > Flash {
				continue
			}
			row = hitRow
			glyph = l.theme.RenderResolved(e.shape, e.outcome)
		case e.outcome != game.Unresolved:
			glyph = l.theme.RenderResolved(e.shape, e.outcome)
		default:
			if l.hidden && Concealed(float64(row), targetY) {
				continue
			}
			glyph = l.theme.RenderNote(e.shape, e.accent)
		}
		put(row, centered(mid, glyph), glyph)
	}

	if l.last != nil {
		msg := fmt.Sprintf("%s %+4.0f ms", l.theme.RenderJudgement(l.last.Outcome), l.last.Delta*1000)
		put(hitRow+2, centered(mid, msg), msg)
	}
	if hud.Countdown > 0 {
		msg := fmt.Sprintf("%d", hud.Countdown)
		put(rows/2, mid, msg)
	}

	l.drawPanel(put, hud)
}

func (l *Lane) drawPanel(put func(row, col int, msg string), hud HUD) {
	const col = 2
	mode := hud.Mode.String()
	if hud.Pending {
		mode = fmt.Sprintf("%v → %v", hud.Mode, hud.Staged)
	}
	put(2, col, fmt.Sprintf("      State:  %-10v", hud.State))
	put(3, col, fmt.Sprintf("      Input:  %-10v", hud.Input))
	put(4, col, fmt.Sprintf("        BPM:  %6v", hud.BPM))
	put(5, col, fmt.Sprintf("       Mode:  %-22v", mode))
	if l.hidden {
		put(6, col, "     Hidden")
	}
	put(10, col, fmt.Sprintf("   Error dt:  %6.0f ms", hud.Stats.TotalError*1000))
	put(11, col, fmt.Sprintf("      Stdev:  %6.2f ms", hud.Stats.Stdev*1000))
	put(12, col, fmt.Sprintf("       Mean:  %6.2f ms", hud.Stats.Mean*1000))
	put(13, col, fmt.Sprintf("      Total:  %6v", l.score.Total()))
	for i, o := range []game.Outcome{game.Perfect, game.Good, game.Miss} {
		var n uint64
		switch o {
		case game.Perfect:
			n = l.score.Perfect
		case game.Good:
			n = l.score.Good
		case game.Miss:
			n = l.score.Miss
		}
		put(18+i, col, fmt.Sprintf("%s:  %6v", l.theme.RenderLabel(o), n))
	}
}

func centered(mid int, msg string) int {
	return mid - lipgloss.Width(msg)/2
}
