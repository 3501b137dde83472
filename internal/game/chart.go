package game

import (
	"time"
)

// Chart is the canonical note sequence for a track, ordered by time.
// It is immutable after generation and shared between playthroughs.
type Chart struct {
	Notes []Note

	activeNotes    []Note
	startNoteIndex int
	endNoteIndex   int
}

// Duration is the time of the last note, or zero for an empty chart.
func (c *Chart) Duration() time.Duration {
	if len(c.Notes) == 0 {
		return 0
	}
	return c.Notes[len(c.Notes)-1].Time
}

// Active is the sliding window of notes worth rendering this frame.
func (c *Chart) Active() ([]Note, int, int) {
	return c.activeNotes, c.startNoteIndex, c.endNoteIndex
}

func (c *Chart) SetActive(start int, end int) {
	c.activeNotes = c.Notes[start:end]
	c.startNoteIndex = start
	c.endNoteIndex = end
}
