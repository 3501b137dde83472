package theme

import (
	"image/color"

	"git.lost.host/meutraa/beatfall/internal/game"
)

type Theme interface {
	RenderNote(lane uint8) string
	RenderHitField(lane uint8) string

	// SpectrumBar renders one visualizer cell for a bin level in [0, 1],
	// given the cell's distance from the bottom of the bar.
	SpectrumBar(level float64, rowFromBottom int, height int) string

	TierColor(tier game.Tier) color.RGBA
	TierLabel(tier game.Tier) string
}
