// Package analysis derives playable charts and visualization frames from
// raw PCM audio samples (mono float64, normalized to [-1, 1]).
package analysis

import (
	"math"
	"time"

	"git.lost.host/meutraa/beatfall/internal/game"
)

// Params tune the onset detector. The zero value selects the defaults.
type Params struct {
	WindowSize int           // analysis window, in samples
	Multiplier float64       // energy must exceed the trailing mean by this factor
	Floor      float64       // absolute RMS floor, suppresses the noise floor
	MinNoteGap time.Duration // global minimum spacing between accepted notes
}

const (
	DefaultWindowSize = 2048
	DefaultMultiplier = 1.4
	DefaultFloor      = 0.05
	DefaultMinNoteGap = 150 * time.Millisecond

	// Notes are grouped by ordinal into runs of 8, each run drawing its
	// lanes from one of four pattern generators.
	groupSize = 8
)

func (p Params) withDefaults() Params {
	if p.WindowSize <= 0 {
		p.WindowSize = DefaultWindowSize
	}
	if p.Multiplier <= 0 {
		p.Multiplier = DefaultMultiplier
	}
	if p.Floor <= 0 {
		p.Floor = DefaultFloor
	}
	if p.MinNoteGap <= 0 {
		p.MinNoteGap = DefaultMinNoteGap
	}
	return p
}

// Generate converts a sample buffer into an ordered chart. It is pure:
// the same buffer and rate always yield the same notes. A silent or
// too-short buffer yields no notes, which is not an error.
func Generate(samples []float64, sampleRate int, params Params) []game.Note {
	p := params.withDefaults()
	if sampleRate <= 0 || len(samples) < p.WindowSize {
		return nil
	}

	windowTime := time.Duration(p.WindowSize) * time.Second / time.Duration(sampleRate)

	// Enough windows to cover roughly one second of trailing baseline.
	history := int(math.Round(float64(time.Second) / float64(windowTime)))
	if history < 1 {
		history = 1
	}

	onsets := []time.Duration{}
	energies := make([]float64, 0, history)
	var lastOnset time.Duration

	for start := 0; start+p.WindowSize <= len(samples); start += p.WindowSize {
		energy := rms(samples[start : start+p.WindowSize])

		// The baseline is the trailing mean, computed before this window
		// joins the history so it cannot bias itself.
		baseline := mean(energies)
		t := time.Duration(start) * time.Second / time.Duration(sampleRate)

		if energy > baseline*p.Multiplier && energy > p.Floor {
			if len(onsets) == 0 || t-lastOnset >= p.MinNoteGap {
				onsets = append(onsets, t)
				lastOnset = t
			}
		}

		energies = append(energies, energy)
		if len(energies) > history {
			energies = energies[1:]
		}
	}

	notes := make([]game.Note, len(onsets))
	for i, t := range onsets {
		notes[i] = game.Note{ID: i, Lane: laneFor(i, t), Time: t}
	}
	return notes
}

// laneFor picks a lane for the onset with the given ordinal. Runs of 8
// cycle through four fixed pattern generators, so identical audio always
// produces an identical chart with no per-note randomness.
func laneFor(ordinal int, t time.Duration) uint8 {
	pos := ordinal % groupSize
	switch (ordinal / groupSize) % 4 {
	case 0: // ascending stairs
		return uint8(pos % game.NKeys)
	case 1: // zigzag within one lane pair, low and high pairs alternating
		// between successive zigzag runs
		pair := (ordinal / groupSize / 4) % 2
		return uint8(pair*2 + pos%2)
	case 2: // descending stairs
		return uint8(game.NKeys - 1 - pos%game.NKeys)
	default: // wide, keyed off the absolute onset time
		return uint8(int(t/(10*time.Millisecond)) % game.NKeys)
	}
}

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
