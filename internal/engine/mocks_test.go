package engine

import (
	"time"

	"git.lost.host/meutraa/beatfall/internal/game"
)

// fakeClock stands in for the wall clock so tests control the transport.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// fakeSource records how the engine drives playback.
type fakeSource struct {
	duration time.Duration
	tapData  []float64

	plays   int
	stops   int
	playing bool
	paused  bool
}

func (s *fakeSource) Play() error {
	s.plays++
	s.playing = true
	s.paused = false
	return nil
}

func (s *fakeSource) Pause() {
	s.paused = true
}

func (s *fakeSource) Resume() {
	s.paused = false
}

func (s *fakeSource) Stop() {
	s.stops++
	s.playing = false
}

func (s *fakeSource) Duration() time.Duration {
	return s.duration
}

func (s *fakeSource) Tap(dst []float64) int {
	return copy(dst, s.tapData)
}

func chartAt(times ...time.Duration) *game.Chart {
	notes := make([]game.Note, len(times))
	for i, t := range times {
		notes[i] = game.Note{ID: i, Lane: 0, Time: t}
	}
	return &game.Chart{Notes: notes}
}

// newTestEngine returns a started, playing engine with no lead in, its
// clock at transport zero.
func newTestEngine(chart *game.Chart, duration time.Duration) (*Engine, *fakeClock, *fakeSource) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	source := &fakeSource{duration: duration}
	e := New(chart, source)
	e.SetClock(clock.Now)
	e.SetLeadIn(0)
	if err := e.Start(); nil != err {
		panic(err)
	}
	if err := e.Tick(); nil != err {
		panic(err)
	}
	return e, clock, source
}
