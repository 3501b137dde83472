package analysis

import (
	"math"
	"testing"
)

func sine(freq float64, n, rate int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
	}
	return samples
}

func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

func TestSpectrumPeakBin(t *testing.T) {
	s := NewSpectrum(32, 1.0)
	frame := s.Update(sine(5000, 2048, rate))
	if len(frame) != 32 {
		t.Fatalf("frame has %v bins", len(frame))
	}

	// 2048 samples at 44.1kHz leave 1024 usable bins of ~21.5Hz, grouped
	// 32 per band; 5kHz lands in band 7.
	want := 5000 * 2048 / rate / 32
	if got := argmax(frame); got != want {
		t.Errorf("peak in band %v, want %v", got, want)
	}
}

func TestSpectrumSmoothing(t *testing.T) {
	s := NewSpectrum(16, 0.2)
	loud := s.Update(sine(1000, 2048, rate))
	peak := loud[argmax(loud)]
	if peak <= 0 {
		t.Fatal("no response to a full-scale tone")
	}

	// A silent update eases each bin toward zero without snapping there.
	quiet := s.Update(make([]float64, 2048))
	after := quiet[argmax(loud)]
	if after <= 0 || after >= peak {
		t.Errorf("bin did not decay smoothly: %v -> %v", peak, after)
	}
}

func TestSpectrumHoldsFrameWithoutSamples(t *testing.T) {
	s := NewSpectrum(8, 0.5)
	s.Update(sine(500, 1024, rate))
	held := make([]float64, 8)
	copy(held, s.Frame())

	frame := s.Update(nil)
	for i := range frame {
		if frame[i] != held[i] {
			t.Fatalf("bin %v changed with no input: %v != %v", i, frame[i], held[i])
		}
	}
}

func TestSpectrumReset(t *testing.T) {
	s := NewSpectrum(8, 1.0)
	s.Update(sine(500, 1024, rate))
	s.Reset()
	for i, b := range s.Frame() {
		if b != 0 {
			t.Errorf("bin %v is %v after reset", i, b)
		}
	}
}
