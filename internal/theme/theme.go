package theme

import "git.lost.host/meutraa/rhythm/internal/game"

type Theme interface {
	RenderNote(shape game.Shape, accent bool) string
	RenderResolved(shape game.Shape, outcome game.Outcome) string
	RenderHitField(shape game.Shape) string
	RenderBeatLine(width int) string
	RenderJudgement(outcome game.Outcome) string
	RenderLabel(outcome game.Outcome) string
}
