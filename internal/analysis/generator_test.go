package analysis

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"git.lost.host/meutraa/beatfall/internal/game"
	"git.lost.host/meutraa/beatfall/internal/testdata"
)

const rate = 44100

func TestGenerateSilence(t *testing.T) {
	notes := Generate(testdata.Silence(3, rate), rate, Params{})
	if len(notes) != 0 {
		t.Fatalf("silent track produced %v notes", len(notes))
	}
}

func TestGenerateTooShort(t *testing.T) {
	// Less than one analysis window of audio.
	notes := Generate(testdata.ClickTrack(0.01, 1, rate), rate, Params{})
	if len(notes) != 0 {
		t.Fatalf("sub-window track produced %v notes", len(notes))
	}
}

func TestGenerateQuietNoiseBelowFloor(t *testing.T) {
	// Noise at 0.04 peak has RMS well under the 0.05 floor. Relative
	// jumps over the baseline must not trigger in the noise floor.
	notes := Generate(testdata.Noise(5, rate, 0.04), rate, Params{})
	if len(notes) != 0 {
		t.Fatalf("noise floor produced %v notes", len(notes))
	}
}

func TestGenerateClickTrack(t *testing.T) {
	samples := testdata.ClickTrack(10, 0.25, rate)
	notes := Generate(samples, rate, Params{})
	if len(notes) != 40 {
		t.Fatalf("expected 40 notes, got %v", len(notes))
	}
	for i, n := range notes {
		if n.ID != i {
			t.Errorf("note %v has id %v", i, n.ID)
		}
		if n.Lane >= game.NKeys {
			t.Errorf("note %v in lane %v", i, n.Lane)
		}
	}
	// The first onset window starts at zero.
	if notes[0].Time != 0 {
		t.Errorf("first note at %v", notes[0].Time)
	}
}

func TestGenerateDebounce(t *testing.T) {
	// Clicks every 100ms are below the 150ms gap; accepted onsets must
	// still respect it.
	samples := testdata.ClickTrack(5, 0.1, rate)
	notes := Generate(samples, rate, Params{})
	if len(notes) == 0 {
		t.Fatal("no notes generated")
	}
	for i := 1; i < len(notes); i++ {
		if gap := notes[i].Time - notes[i-1].Time; gap < DefaultMinNoteGap {
			t.Errorf("notes %v and %v only %v apart", i-1, i, gap)
		}
	}
}

func TestGenerateLanePatterns(t *testing.T) {
	notes := Generate(testdata.ClickTrack(10, 0.25, rate), rate, Params{})
	if len(notes) < 24 {
		t.Fatalf("need at least 24 notes, got %v", len(notes))
	}

	stairs := []uint8{0, 1, 2, 3, 0, 1, 2, 3}
	for i, want := range stairs {
		if notes[i].Lane != want {
			t.Errorf("stairs: note %v in lane %v, want %v", i, notes[i].Lane, want)
		}
	}
	zigzag := []uint8{0, 1, 0, 1, 0, 1, 0, 1}
	for i, want := range zigzag {
		if notes[8+i].Lane != want {
			t.Errorf("zigzag: note %v in lane %v, want %v", 8+i, notes[8+i].Lane, want)
		}
	}
	reverse := []uint8{3, 2, 1, 0, 3, 2, 1, 0}
	for i, want := range reverse {
		if notes[16+i].Lane != want {
			t.Errorf("reverse stairs: note %v in lane %v, want %v", 16+i, notes[16+i].Lane, want)
		}
	}
}

func TestLaneZigzagAlternatesPairs(t *testing.T) {
	// The first zigzag run (ordinals 8..15) toggles within the low pair,
	// the next one (40..47) within the high pair, and so on.
	for i := 0; i < 8; i++ {
		if lane := laneFor(8+i, 0); lane != uint8(i%2) {
			t.Errorf("ordinal %v in lane %v, want %v", 8+i, lane, i%2)
		}
		if lane := laneFor(40+i, 0); lane != uint8(2+i%2) {
			t.Errorf("ordinal %v in lane %v, want %v", 40+i, lane, 2+i%2)
		}
		if lane := laneFor(72+i, 0); lane != uint8(i%2) {
			t.Errorf("ordinal %v in lane %v, want %v", 72+i, lane, i%2)
		}
	}
}

func TestGenerateCustomParams(t *testing.T) {
	samples := testdata.ClickTrack(5, 0.5, rate)
	wide := Generate(samples, rate, Params{MinNoteGap: 600 * time.Millisecond})
	for i := 1; i < len(wide); i++ {
		if gap := wide[i].Time - wide[i-1].Time; gap < 600*time.Millisecond {
			t.Errorf("notes %v and %v only %v apart", i-1, i, gap)
		}
	}
}

func sameNotes(p, q []game.Note) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

func TestGenerateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	genSamples := gopter.CombineGens(
		gen.Float64Range(0.5, 4),   // track length, seconds
		gen.Float64Range(0.1, 0.8), // click interval, seconds
	).Map(func(vs []interface{}) []float64 {
		return testdata.ClickTrack(vs[0].(float64), vs[1].(float64), rate)
	})

	properties.Property("identical input yields an identical chart", prop.ForAll(
		func(samples []float64) bool {
			return sameNotes(
				Generate(samples, rate, Params{}),
				Generate(samples, rate, Params{}),
			)
		},
		genSamples,
	))

	properties.Property("notes are ordered and respect the minimum gap", prop.ForAll(
		func(samples []float64) bool {
			notes := Generate(samples, rate, Params{})
			for i := 1; i < len(notes); i++ {
				if notes[i].Time-notes[i-1].Time < DefaultMinNoteGap {
					return false
				}
			}
			return true
		},
		genSamples,
	))

	properties.Property("every lane is in range", prop.ForAll(
		func(samples []float64) bool {
			for _, n := range Generate(samples, rate, Params{}) {
				if n.Lane >= game.NKeys {
					return false
				}
			}
			return true
		},
		genSamples,
	))

	properties.TestingRun(t)
}
