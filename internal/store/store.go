// Package store caches generated charts so a known track skips the
// analysis pass on replay.
package store

import (
	"git.lost.host/meutraa/beatfall/internal/game"
)

type Store interface {
	Init() error
	Deinit()

	// Save the generated chart under the track's content hash.
	Save(sum string, notes []game.Note)

	// Load a previously generated chart, or nil if the track is unknown.
	Load(sum string) []game.Note
}
