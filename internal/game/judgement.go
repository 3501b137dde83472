package game

// Tier is the accuracy class of a resolved note.
type Tier int

const (
	TierMiss Tier = iota
	TierGood
	TierPerfect
)

func (t Tier) String() string {
	switch t {
	case TierPerfect:
		return "Perfect"
	case TierGood:
		return "Good"
	}
	return "Miss"
}
