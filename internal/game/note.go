package game

import (
	"time"
)

const NKeys = 4

// Note is a single playable note. Everything here is fixed at generation
// time; runtime hit state belongs to the engine, never the chart.
type Note struct {
	ID   int
	Lane uint8         // The chart column, 0..3
	Time time.Duration // The time the note should be hit
}
