package theme

import (
	"strings"

	"git.lost.host/meutraa/rhythm/internal/game"
	"github.com/charmbracelet/lipgloss"
)

type DefaultTheme struct {
	note, accent, field, line lipgloss.Style
	outcomes                  map[game.Outcome]lipgloss.Style
}

func NewDefaultTheme() *DefaultTheme {
	return &DefaultTheme{
		note:   lipgloss.NewStyle().Foreground(noteColors[noteColor]),
		accent: lipgloss.NewStyle().Foreground(noteColors[accentColor]).Bold(true),
		field:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6a6a6a")),
		line:   lipgloss.NewStyle().Foreground(lipgloss.Color("#3a3a3a")),
		outcomes: map[game.Outcome]lipgloss.Style{
			game.Perfect: lipgloss.NewStyle().Foreground(noteColors[perfectColor]).Bold(true),
			game.Good:    lipgloss.NewStyle().Foreground(noteColors[goodColor]).Bold(true),
			game.Miss:    lipgloss.NewStyle().Foreground(noteColors[missColor]).Bold(true),
		},
	}
}

func (t *DefaultTheme) RenderNote(shape game.Shape, accent bool) string {
	if accent {
		return t.accent.Render(syms[shape])
	}
	return t.note.Render(syms[shape])
}

func (t *DefaultTheme) RenderResolved(shape game.Shape, outcome game.Outcome) string {
	return t.outcomes[outcome].Render(syms[shape])
}

func (t *DefaultTheme) RenderHitField(shape game.Shape) string {
	return t.field.Render(barSyms[shape])
}

func (t *DefaultTheme) RenderBeatLine(width int) string {
	if width < 1 {
		return ""
	}
	return t.line.Render(strings.Repeat(lineSym, width))
}

func (t *DefaultTheme) RenderJudgement(outcome game.Outcome) string {
	return t.outcomes[outcome].Render(names[outcome])
}

// RenderLabel is the right aligned outcome name for the stats panel.
func (t *DefaultTheme) RenderLabel(outcome game.Outcome) string {
	return t.outcomes[outcome].Render(lipgloss.NewStyle().Width(8).Align(lipgloss.Right).Render(names[outcome]))
}

const lineSym = "┄"

const (
	noteColor = iota
	accentColor
	perfectColor
	goodColor
	missColor
)

var (
	syms = map[game.Shape]string{
		game.Circle: "⬤",
		game.Bar:    "▬▬▬",
	}
	barSyms = map[game.Shape]string{
		game.Circle: "◯",
		game.Bar:    "═══",
	}
	names = map[game.Outcome]string{
		game.Perfect: "Perfect",
		game.Good:    "Good",
		game.Miss:    "Miss",
	}
	noteColors = map[int]lipgloss.Color{
		noteColor:    "#0076ec", // blue
		accentColor:  "#ec1e00", // red
		perfectColor: "#00ec80", // green
		goodColor:    "#ecc300", // yellow
		missColor:    "#ec006a", // pink
	}
)
