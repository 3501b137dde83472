// Package testdata builds synthetic PCM buffers for analysis tests.
package testdata

import (
	"math"
)

// Silence returns a buffer of zero samples.
func Silence(seconds float64, rate int) []float64 {
	return make([]float64, int(seconds*float64(rate)))
}

// ClickTrack lays short loud bursts over silence, one every interval
// seconds starting at zero. Each burst is a decaying 1kHz tone, loud
// enough to clear the onset floor.
func ClickTrack(seconds, interval float64, rate int) []float64 {
	samples := Silence(seconds, rate)
	burst := int(0.03 * float64(rate))
	step := int(interval * float64(rate))
	if step < 1 {
		step = 1
	}
	for start := 0; start < len(samples); start += step {
		for i := 0; i < burst && start+i < len(samples); i++ {
			t := float64(i) / float64(rate)
			decay := 1 - float64(i)/float64(burst)
			samples[start+i] = 0.8 * decay * math.Sin(2*math.Pi*1000*t)
		}
	}
	return samples
}

// Noise returns a deterministic pseudo-random buffer at the given peak
// amplitude, from a fixed linear congruential sequence.
func Noise(seconds float64, rate int, amplitude float64) []float64 {
	samples := Silence(seconds, rate)
	seed := uint64(1)
	for i := range samples {
		seed = seed*6364136223846793005 + 1442695040888963407
		samples[i] = amplitude * (2*float64(seed>>11)/float64(1<<53) - 1)
	}
	return samples
}
