package game

import (
	"testing"
)

var gradeTests = map[float64]Grade{
	1.0:   "S",
	0.95:  "S",
	0.949: "A",
	0.90:  "A",
	0.85:  "B",
	0.80:  "B",
	0.75:  "C",
	0.70:  "C",
	0.65:  "D",
	0.60:  "D",
	0.599: "F",
	0.0:   "F",
}

func TestGradeFor(t *testing.T) {
	for accuracy, expected := range gradeTests {
		if grade := GradeFor(accuracy); grade != expected {
			t.Errorf("GradeFor(%v) = %v, want %v", accuracy, grade, expected)
		}
	}
}
