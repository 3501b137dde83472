package config

import (
	"errors"

	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	Song          = kingpin.Arg("song", "Audio file to play (mp3, ogg, wav)").Required().ExistingFile()
	Delay         = kingpin.Flag("delay", "Lead in before the first note").Default("500ms").Short('d').Duration()
	Volume        = kingpin.Flag("volume", "Volume in dB relative to the source").Default("0").Short('v').Float64()
	keys          = kingpin.Flag("keys", "Lane keys, left to right").Default("dfjk").Short('k').String()
	ColumnSpacing = kingpin.Flag("spacing", "Columns between lanes").Default("6").Short('S').Uint()
	FramePeriod   = kingpin.Flag("frame-period", "Render frame period").Default("4ms").Short('p').Duration()
	BarRow        = kingpin.Flag("bar-row", "Rows between hit bar and bottom edge").Default("8").Uint()
	ScrollMs      = kingpin.Flag("scroll", "Milliseconds of travel per terminal row").Default("30").Short('s').Uint()
	NoCache       = kingpin.Flag("no-cache", "Force re-analysis of the track").Bool()

	// Onset detector overrides; zero values select the analyzer defaults.
	WindowSize = kingpin.Flag("window", "Analysis window in samples").Default("0").Int()
	Multiplier = kingpin.Flag("multiplier", "Energy multiplier over the trailing mean").Default("0").Float64()
	Floor      = kingpin.Flag("floor", "Absolute RMS onset floor").Default("0").Float64()
	NoteGap    = kingpin.Flag("gap", "Minimum time between notes").Default("0").Duration()
)

// Parse finalizes the flag surface. Kept out of init so tests can import
// this package without a command line.
func Parse() {
	kingpin.Version("0.1.0")
	kingpin.Parse()
}

func Keys() []rune {
	return []rune(*keys)
}

// KeyLane maps a pressed rune to its lane, or an error for any other key.
func KeyLane(r rune) (uint8, error) {
	for i, c := range Keys() {
		if r == c {
			return uint8(i), nil
		}
	}
	return 0, errors.New("not a lane key")
}
