package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum folds raw sample snapshots into a smoothed frequency-magnitude
// frame for the visualizer. Each bin eases toward its newest raw reading
// so the bars do not jitter at the render rate.
type Spectrum struct {
	bins      []float64
	smoothing float64
}

func NewSpectrum(bins int, smoothing float64) *Spectrum {
	if bins < 1 {
		bins = 1
	}
	return &Spectrum{
		bins:      make([]float64, bins),
		smoothing: smoothing,
	}
}

// Update feeds the newest snapshot of mono samples and returns the frame.
// The returned slice is owned by the Spectrum and reused between calls.
func (s *Spectrum) Update(samples []float64) []float64 {
	if len(samples) < 2 {
		return s.bins
	}

	buf := make([]float64, len(samples))
	copy(buf, samples)
	window.Apply(buf, window.Hann)

	spectrum := fft.FFTReal(buf)
	half := len(spectrum) / 2

	perBin := half / len(s.bins)
	if perBin < 1 {
		perBin = 1
	}

	for i := range s.bins {
		lo := i * perBin
		if lo >= half {
			s.bins[i] += (0 - s.bins[i]) * s.smoothing
			continue
		}
		hi := lo + perBin
		if hi > half {
			hi = half
		}
		sum := 0.0
		for j := lo; j < hi; j++ {
			sum += cmplx.Abs(spectrum[j]) / float64(len(buf))
		}
		raw := math.Log10(1 + 9*(sum/float64(hi-lo)))
		s.bins[i] += (raw - s.bins[i]) * s.smoothing
	}
	return s.bins
}

// Frame returns the current frame without feeding new samples.
func (s *Spectrum) Frame() []float64 {
	return s.bins
}

// Reset zeroes every bin, for restarts.
func (s *Spectrum) Reset() {
	for i := range s.bins {
		s.bins[i] = 0
	}
}
