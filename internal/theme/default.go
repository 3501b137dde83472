package theme

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/beatfall/internal/game"
)

type DefaultTheme struct{}

const noteSym = "⬤"

var (
	barSyms  = [...]string{"-", "-", "-", "-"}
	barChars = []rune(" ▁▂▃▄▅▆▇█")

	laneColors = [...]color.RGBA{
		{R: 236, G: 30, B: 0},
		{R: 0, G: 118, B: 236},
		{R: 236, G: 195, B: 0},
		{R: 106, G: 0, B: 236},
	}

	tierColors = map[game.Tier]color.RGBA{
		game.TierPerfect: {R: 173, G: 236, B: 236},
		game.TierGood:    {R: 0, G: 236, B: 128},
		game.TierMiss:    {R: 236, G: 30, B: 0},
	}

	tierLabels = map[game.Tier]string{
		game.TierPerfect: "    \033[38;5;153mPerfect\033[0m",
		game.TierGood:    "       \033[1;32mGood\033[0m",
		game.TierMiss:    "       \033[1;31mMiss\033[0m",
	}
)

func (t *DefaultTheme) RenderNote(lane uint8) string {
	c := laneColors[int(lane)%len(laneColors)]
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, noteSym)
}

func (t *DefaultTheme) RenderHitField(lane uint8) string {
	return barSyms[int(lane)%len(barSyms)]
}

func (t *DefaultTheme) SpectrumBar(level float64, rowFromBottom int, height int) string {
	if height < 1 {
		height = 1
	}
	cells := level * float64(height)
	idx := 0
	if cells > float64(rowFromBottom)+1 {
		idx = len(barChars) - 1
	} else if cells > float64(rowFromBottom) {
		idx = int((cells - float64(rowFromBottom)) * float64(len(barChars)-1))
	}
	return string(barChars[idx])
}

func (t *DefaultTheme) TierColor(tier game.Tier) color.RGBA {
	return tierColors[tier]
}

func (t *DefaultTheme) TierLabel(tier game.Tier) string {
	return tierLabels[tier]
}
