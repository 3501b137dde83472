package main

import (
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/beatfall/internal/config"
	"git.lost.host/meutraa/beatfall/internal/engine"
	"git.lost.host/meutraa/beatfall/internal/game"
	"git.lost.host/meutraa/beatfall/internal/input"
	"git.lost.host/meutraa/beatfall/internal/render"
	"git.lost.host/meutraa/beatfall/internal/theme"
)

// Program is the presentation shell around the engine: it polls input,
// ticks the transport, and draws the field, spectrum and stats.
type Program struct {
	engine *engine.Engine
	render render.Renderer
	theme  theme.Theme
	input  *input.Handler

	columns, rows int
	laneCols      [game.NKeys]int
	hitRow        int
	sideCol       int

	// last rendered row per note, for clearing trails
	noteRows []int

	lastJudgment    *engine.Judgment
	spectrumColumns int
}

func NewProgram(e *engine.Engine, r render.Renderer, th theme.Theme, h *input.Handler) *Program {
	return &Program{
		engine: e,
		render: r,
		theme:  th,
		input:  h,
	}
}

func (p *Program) layout() {
	p.columns, p.rows = p.render.Size()

	mc := p.columns >> 1
	spacing := int(*config.ColumnSpacing)
	p.laneCols = [game.NKeys]int{
		mc - spacing*3,
		mc - spacing,
		mc + spacing,
		mc + spacing*3,
	}
	p.hitRow = p.rows - int(*config.BarRow)

	p.sideCol = p.laneCols[0] - 36
	if p.sideCol < 2 {
		p.sideCol = 2
	}
	p.spectrumColumns = p.laneCols[3] - p.laneCols[0] + spacing*2
	p.resetNoteRows()
}

func (p *Program) resetNoteRows() {
	p.noteRows = make([]int, len(p.engine.Chart().Notes))
	for i := range p.noteRows {
		p.noteRows[i] = -1
	}
}

func (p *Program) Run() error {
	p.layout()
	p.engine.OnJudgment(p.flashJudgment)

	if err := p.engine.Start(); nil != err {
		return err
	}

	var loopErr error
	p.render.RenderLoop(*config.FramePeriod, func(now time.Time) bool {
		for _, ev := range p.input.Poll() {
			switch ev.Action {
			case input.ActionQuit:
				return false
			case input.ActionPause:
				p.togglePause()
			case input.ActionRestart:
				p.restart()
			case input.ActionLane:
				p.press(ev.Lane)
			}
		}

		if err := p.engine.Tick(); nil != err {
			loopErr = err
			return false
		}

		p.draw()
		return true
	})
	return loopErr
}

func (p *Program) togglePause() {
	var err error
	switch p.engine.State() {
	case engine.StatePlaying:
		err = p.engine.Pause()
	case engine.StatePaused:
		err = p.engine.Resume()
	default:
		return
	}
	if nil != err {
		log.Println(err)
	}
}

func (p *Program) restart() {
	if err := p.engine.Restart(); nil != err {
		log.Println(err)
		return
	}
	p.engine.Chart().SetActive(0, 0)
	p.resetNoteRows()
	p.lastJudgment = nil
	p.render.Fill(1, 1, "\033[2J")
}

func (p *Program) press(lane uint8) {
	judgment, err := p.engine.SubmitInput(lane)
	if nil != err {
		return // not playing, ignore the press
	}
	if nil == judgment {
		// Whiffed press, give a brief neutral flash on the hit field.
		p.render.AddDecoration(p.laneCols[lane], p.hitRow, "·", 12)
	}
}

func (p *Program) flashJudgment(j engine.Judgment) {
	p.lastJudgment = &j
	c := p.theme.TierColor(j.Tier)
	flash := fmt.Sprintf("\033[38;2;%v;%v;%vm◆\033[0m", c.R, c.G, c.B)
	p.render.AddDecoration(p.laneCols[j.Note.Lane], p.hitRow, flash, 24)
}

func (p *Program) draw() {
	switch p.engine.State() {
	case engine.StateCountdown:
		p.drawCountdown()
	case engine.StatePlaying:
		// wipe any countdown or pause text left at the center
		p.render.Fill(p.rows>>1, p.columns>>1-4, "        ")
	case engine.StateFinished:
		p.drawResults()
		return
	}

	p.drawField()
	p.drawSpectrum()
	p.drawStats()

	if p.engine.State() == engine.StatePaused {
		p.render.Fill(p.rows>>1, p.columns>>1-4, "\033[1mPAUSED\033[0m")
	}
}

func (p *Program) drawField() {
	now := p.engine.Elapsed()
	scroll := time.Duration(*config.ScrollMs) * time.Millisecond
	chart := p.engine.Chart()

	// Render the hit bar
	for i := uint8(0); i < game.NKeys; i++ {
		p.render.Fill(p.hitRow, p.laneCols[i], p.theme.RenderHitField(i))
	}

	active, start, end := chart.Active()
	startOffset := 0
	endOffset := 0

	for i, note := range active {
		idx := start + i
		col := p.laneCols[note.Lane]
		row := p.hitRow - int((note.Time-now)/scroll)

		if prev := p.noteRows[idx]; prev != row && prev > 0 && prev < p.rows {
			p.render.Fill(prev, col, " ")
		}
		p.noteRows[idx] = row

		if row > p.rows {
			// Scrolled past the bottom edge, slide the window forward. The
			// engine's miss sweep resolves it, not the renderer.
			startOffset++
			continue
		}

		hit, missed := p.engine.Resolved(idx)
		if !hit && !missed && row > 0 && row < p.rows {
			p.render.Fill(row, col, p.theme.RenderNote(note.Lane))
		} else if row > 0 && row < p.rows {
			p.render.Fill(row, col, " ")
		}
	}

	// Pull notes entering the top of the screen into the active window.
	for _, note := range chart.Notes[end:] {
		if p.hitRow-int((note.Time-now)/scroll) >= 1 {
			endOffset++
		} else {
			break
		}
	}
	chart.SetActive(start+startOffset, end+endOffset)
}

func (p *Program) drawSpectrum() {
	frame := p.engine.Frame()
	if len(frame) == 0 {
		return
	}

	height := int(*config.BarRow) - 2
	if height < 1 {
		height = 1
	}
	width := p.spectrumColumns / len(frame)
	if width < 1 {
		width = 1
	}
	left := (p.columns - width*len(frame)) >> 1

	for b, level := range frame {
		if level > 1 {
			level = 1
		}
		for y := 0; y < height; y++ {
			cell := p.theme.SpectrumBar(level, height-1-y, height)
			for x := 0; x < width; x++ {
				p.render.Fill(p.hitRow+2+y, left+b*width+x, cell)
			}
		}
	}
}

func (p *Program) drawStats() {
	stats := p.engine.Stats()
	p.render.Fill(3, p.sideCol, fmt.Sprintf("   Elapsed: %7.1fs", p.engine.Elapsed().Seconds()))
	p.render.Fill(5, p.sideCol, fmt.Sprintf("     Score: %8v", stats.Score))
	p.render.Fill(6, p.sideCol, fmt.Sprintf("     Combo: %8v", stats.Combo))
	p.render.Fill(7, p.sideCol, fmt.Sprintf(" Max Combo: %8v", stats.MaxCombo))
	p.render.Fill(9, p.sideCol, fmt.Sprintf("   Perfect: %8v", stats.Perfects))
	p.render.Fill(10, p.sideCol, fmt.Sprintf("      Good: %8v", stats.Goods))
	p.render.Fill(11, p.sideCol, fmt.Sprintf("      Miss: %8v", stats.Misses))

	if nil != p.lastJudgment {
		p.render.Fill(13, p.sideCol, p.theme.TierLabel(p.lastJudgment.Tier))
		p.render.Fill(14, p.sideCol, fmt.Sprintf("   %+6.0f ms ", float64(p.lastJudgment.Diff.Milliseconds())))
	}
}

func (p *Program) drawCountdown() {
	remaining := -p.engine.Elapsed()
	if remaining < 0 {
		return
	}
	p.render.Fill(p.rows>>1, p.columns>>1-4, fmt.Sprintf("\033[1m%4.1f\033[0m", remaining.Seconds()))
}

func (p *Program) drawResults() {
	stats := p.engine.Stats()
	col := p.columns>>1 - 12
	row := p.rows>>1 - 4

	p.render.Fill(row, col, fmt.Sprintf("     Grade: %8v", p.engine.Grade()))
	p.render.Fill(row+1, col, fmt.Sprintf("  Accuracy: %7.1f%%", p.engine.Accuracy()*100))
	p.render.Fill(row+2, col, fmt.Sprintf("     Score: %8v", stats.Score))
	p.render.Fill(row+3, col, fmt.Sprintf(" Max Combo: %8v", stats.MaxCombo))
	p.render.Fill(row+4, col, fmt.Sprintf("   Perfect: %8v", stats.Perfects))
	p.render.Fill(row+5, col, fmt.Sprintf("      Good: %8v", stats.Goods))
	p.render.Fill(row+6, col, fmt.Sprintf("      Miss: %8v", stats.Misses))
	p.render.Fill(row+8, col, "r to restart, esc to quit")
}
