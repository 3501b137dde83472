package game

// Stats accumulates scoring state for a single playthrough. The engine is
// the only writer; everything else reads a copy.
type Stats struct {
	Score    int
	Combo    int
	MaxCombo int
	Perfects int
	Goods    int
	Misses   int
}

type Grade string

// GradeFor maps an accuracy in [0, 1] to a letter grade.
func GradeFor(accuracy float64) Grade {
	switch {
	case accuracy >= 0.95:
		return "S"
	case accuracy >= 0.90:
		return "A"
	case accuracy >= 0.80:
		return "B"
	case accuracy >= 0.70:
		return "C"
	case accuracy >= 0.60:
		return "D"
	}
	return "F"
}
