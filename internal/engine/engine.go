// Package engine owns the transport clock for a playthrough and judges
// player input against a generated chart.
package engine

import (
	"errors"
	"fmt"
	"time"

	"git.lost.host/meutraa/beatfall/internal/analysis"
	"git.lost.host/meutraa/beatfall/internal/game"
)

// Source is the playable audio handle the engine drives. internal/audio
// implements it on a beep speaker; tests substitute a fake. After Stop,
// Play starts again from the beginning of the track.
type Source interface {
	Play() error
	Pause()
	Resume()
	Stop()
	Duration() time.Duration

	// Tap copies the most recently played mono samples into dst, oldest
	// first, and returns how many were copied.
	Tap(dst []float64) int
}

type State int

const (
	StateIdle State = iota
	StateCountdown
	StatePlaying
	StatePaused
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// ErrState is returned for operations invalid in the current state.
var ErrState = errors.New("invalid state for operation")

const (
	PerfectWindow = 80 * time.Millisecond
	GoodWindow    = 150 * time.Millisecond
	MissWindow    = 250 * time.Millisecond

	PerfectPoints = 300
	GoodPoints    = 100

	// LeadIn is the countdown before the transport reaches zero, so the
	// player can orient before the first note.
	LeadIn = 500 * time.Millisecond

	// FinishSlack tolerates tail silence when detecting the end of a track.
	FinishSlack = 500 * time.Millisecond

	spectrumBins      = 32
	spectrumSmoothing = 0.2
	tapSize           = 2048
)

// Judgment is the feedback for a single resolved note.
type Judgment struct {
	Note       game.Note
	Tier       game.Tier
	Diff       time.Duration // signed press error, negative when early
	Combo      int           // combo after this judgment
	ScoreDelta int
}

// noteStatus is the engine-owned runtime state of one chart note. A note
// transitions from pristine to exactly one of hit or missed, never both,
// never back.
type noteStatus struct {
	hit    bool
	missed bool
	tier   game.Tier
}

// Engine is the playback and judgment core. It is not safe for concurrent
// use; the render loop is its single owner.
type Engine struct {
	chart  *game.Chart
	source Source
	status []noteStatus
	stats  game.Stats

	state  State
	clock  func() time.Time
	anchor time.Time     // wall time at which elapsed is zero
	frozen time.Duration // elapsed while paused or finished
	leadIn time.Duration

	spectrum *analysis.Spectrum
	tap      []float64

	onJudgment func(Judgment)
}

func New(chart *game.Chart, source Source) *Engine {
	return &Engine{
		chart:    chart,
		source:   source,
		status:   make([]noteStatus, len(chart.Notes)),
		state:    StateIdle,
		clock:    time.Now,
		leadIn:   LeadIn,
		spectrum: analysis.NewSpectrum(spectrumBins, spectrumSmoothing),
		tap:      make([]float64, tapSize),
	}
}

// SetClock replaces the wall clock, for tests.
func (e *Engine) SetClock(clock func() time.Time) {
	e.clock = clock
}

// SetLeadIn overrides the countdown length. Valid before Start.
func (e *Engine) SetLeadIn(d time.Duration) {
	e.leadIn = d
}

// OnJudgment registers a callback fired for every resolved note, hit or
// swept miss.
func (e *Engine) OnJudgment(fn func(Judgment)) {
	e.onJudgment = fn
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Stats() game.Stats {
	return e.stats
}

func (e *Engine) Chart() *game.Chart {
	return e.chart
}

// Resolved reports the runtime state of note i.
func (e *Engine) Resolved(i int) (hit, missed bool) {
	return e.status[i].hit, e.status[i].missed
}

// Elapsed is the authoritative transport time. Every judgment and every
// render consults this, never a locally advanced counter. It is negative
// during the countdown and frozen while paused or finished.
func (e *Engine) Elapsed() time.Duration {
	switch e.state {
	case StateCountdown, StatePlaying:
		return e.clock().Sub(e.anchor)
	case StatePaused, StateFinished:
		return e.frozen
	}
	return 0
}

// Start begins a playthrough from idle, entering the countdown.
func (e *Engine) Start() error {
	if e.state != StateIdle {
		return fmt.Errorf("start while %v: %w", e.state, ErrState)
	}
	e.anchor = e.clock().Add(e.leadIn)
	e.state = StateCountdown
	return nil
}

// Pause freezes the transport and the speaker. Note state is untouched.
func (e *Engine) Pause() error {
	if e.state != StatePlaying {
		return fmt.Errorf("pause while %v: %w", e.state, ErrState)
	}
	e.frozen = e.clock().Sub(e.anchor)
	e.source.Pause()
	e.state = StatePaused
	return nil
}

// Resume re-anchors the clock at the frozen elapsed value so the transport
// continues without a jump, however long the pause lasted.
func (e *Engine) Resume() error {
	if e.state != StatePaused {
		return fmt.Errorf("resume while %v: %w", e.state, ErrState)
	}
	e.anchor = e.clock().Add(-e.frozen)
	e.source.Resume()
	e.state = StatePlaying
	return nil
}

// Restart resets every note and the stats to the pristine state and
// re-enters the countdown. The canonical chart is never touched; only the
// parallel status slice is cleared.
func (e *Engine) Restart() error {
	if e.state == StateIdle {
		return fmt.Errorf("restart while %v: %w", e.state, ErrState)
	}
	e.source.Stop()
	for i := range e.status {
		e.status[i] = noteStatus{}
	}
	e.stats = game.Stats{}
	e.spectrum.Reset()
	e.anchor = e.clock().Add(e.leadIn)
	e.state = StateCountdown
	return nil
}

// SubmitInput judges a lane press against the nearest unresolved note in
// that lane. A press outside every window is a no-op and returns nil,
// which the caller may surface as a whiffed flash.
func (e *Engine) SubmitInput(lane uint8) (*Judgment, error) {
	if e.state != StatePlaying {
		return nil, fmt.Errorf("input while %v: %w", e.state, ErrState)
	}
	now := e.clock().Sub(e.anchor)

	closest := -1
	var diff, absDiff time.Duration
	absDiff = time.Hour * 24
	for i, note := range e.chart.Notes {
		if e.status[i].hit || e.status[i].missed || note.Lane != lane {
			continue
		}
		dd := now - note.Time
		d := abs(dd)
		if d < absDiff {
			diff = dd
			absDiff = d
			closest = i
		} else if closest >= 0 {
			// already found the closest, notes only get further from here
			break
		}
	}
	if closest < 0 || absDiff > MissWindow {
		return nil, nil
	}

	tier := tierFor(absDiff)
	// A belated press inside the outer window still consumes the note, as
	// a miss, rather than leaving it for the sweep.
	e.status[closest] = noteStatus{hit: true, tier: tier}
	delta := e.applyTier(tier)

	j := Judgment{
		Note:       e.chart.Notes[closest],
		Tier:       tier,
		Diff:       diff,
		Combo:      e.stats.Combo,
		ScoreDelta: delta,
	}
	if nil != e.onJudgment {
		e.onJudgment(j)
	}
	return &j, nil
}

// Tick advances the engine: it promotes the countdown, sweeps overdue
// notes into misses, and detects the natural end of the track. It is
// idempotent for a non-decreasing clock; a note resolves at most once.
func (e *Engine) Tick() error {
	switch e.state {
	case StateCountdown:
		if e.clock().Sub(e.anchor) < 0 {
			return nil
		}
		if err := e.source.Play(); nil != err {
			return fmt.Errorf("unable to start playback: %w", err)
		}
		e.state = StatePlaying
	case StatePlaying:
	default:
		return nil
	}

	now := e.clock().Sub(e.anchor)
	for i, note := range e.chart.Notes {
		if e.status[i].hit || e.status[i].missed {
			continue
		}
		if now <= note.Time+MissWindow {
			// notes are time ordered, nothing later is overdue either
			break
		}
		e.status[i] = noteStatus{missed: true, tier: game.TierMiss}
		e.stats.Combo = 0
		e.stats.Misses++
		if nil != e.onJudgment {
			e.onJudgment(Judgment{Note: note, Tier: game.TierMiss, Combo: 0})
		}
	}

	if now >= e.source.Duration()-FinishSlack {
		e.frozen = now
		e.state = StateFinished
		e.source.Stop()
	}
	return nil
}

// Frame returns the smoothed frequency-magnitude vector for the
// visualizer. Outside of play it returns the held frame unchanged.
func (e *Engine) Frame() []float64 {
	if e.state != StatePlaying {
		return e.spectrum.Frame()
	}
	n := e.source.Tap(e.tap)
	return e.spectrum.Update(e.tap[:n])
}

// Accuracy is the score relative to an all-perfect run, clamped to [0, 1].
// An empty chart is defined as zero rather than a division error.
func (e *Engine) Accuracy() float64 {
	if len(e.chart.Notes) == 0 {
		return 0
	}
	accuracy := float64(e.stats.Score) / float64(len(e.chart.Notes)*PerfectPoints)
	if accuracy > 1 {
		accuracy = 1
	}
	return accuracy
}

func (e *Engine) Grade() game.Grade {
	return game.GradeFor(e.Accuracy())
}

func (e *Engine) applyTier(tier game.Tier) int {
	if tier == game.TierMiss {
		e.stats.Combo = 0
		e.stats.Misses++
		return 0
	}

	e.stats.Combo++
	if e.stats.Combo > e.stats.MaxCombo {
		e.stats.MaxCombo = e.stats.Combo
	}

	delta := GoodPoints
	if tier == game.TierPerfect {
		delta = PerfectPoints
		e.stats.Perfects++
	} else {
		e.stats.Goods++
	}
	// The combo bonus is computed from the post-increment combo.
	if e.stats.Combo > 10 {
		delta += e.stats.Combo / 10 * 10
	}
	e.stats.Score += delta
	return delta
}

func tierFor(absDiff time.Duration) game.Tier {
	switch {
	case absDiff <= PerfectWindow:
		return game.TierPerfect
	case absDiff <= GoodWindow:
		return game.TierGood
	}
	return game.TierMiss
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}
