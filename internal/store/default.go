package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"log"
	"sort"
	"time"

	"git.lost.host/meutraa/beatfall/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultStore struct {
	db *sql.DB
}

// NotesCompact is the stored shape of a chart: one row of hit times per
// lane, a fraction of the size of the flat note list.
type NotesCompact struct {
	Lane  uint8
	Times []time.Duration
}

func compactNotes(notes []game.Note) []NotesCompact {
	laneCount := 0
	for _, n := range notes {
		if int(n.Lane) >= laneCount {
			laneCount = int(n.Lane) + 1
		}
	}
	ns := make([]NotesCompact, laneCount)
	for _, n := range notes {
		ns[n.Lane].Lane = n.Lane // Repeated but it does not matter
		ns[n.Lane].Times = append(ns[n.Lane].Times, n.Time)
	}
	return ns
}

// uncompactNotes rebuilds the flat time-ordered note list. The generator's
// minimum gap guarantees no two notes share a time, so the order and the
// sequential ids are fully recoverable.
func uncompactNotes(compact []NotesCompact) []game.Note {
	notes := []game.Note{}
	for _, c := range compact {
		for _, t := range c.Times {
			notes = append(notes, game.Note{Lane: c.Lane, Time: t})
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})
	for i := range notes {
		notes[i].ID = i
	}
	return notes
}

// Sum is the cache key for a track: the hash of its raw file contents.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *DefaultStore) Init() error {
	db, err := sql.Open("sqlite3", "./charts.db")
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists charts
	  (
		  id integer not null primary key,
		  sum text,
		  notes bytearray
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		return err
	}

	s.db = db
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *DefaultStore) Save(sum string, notes []game.Note) {
	data, err := json.Marshal(compactNotes(notes))
	if nil != err {
		log.Println("unable to marshal chart", err)
		return
	}
	_, err = s.db.Exec("insert into charts(sum, notes) values(?, ?)", sum, data)
	if nil != err {
		log.Println("unable to save chart", err)
	}
}

func (s *DefaultStore) Load(sum string) []game.Note {
	row := s.db.QueryRow("select notes from charts where sum = ?", sum)
	var data []byte
	if err := row.Scan(&data); nil != err {
		if err != sql.ErrNoRows {
			log.Println("unable to load chart", err)
		}
		return nil
	}
	var compact []NotesCompact
	if err := json.Unmarshal(data, &compact); nil != err {
		log.Println("unable to unmarshal chart", err)
		return nil
	}
	return uncompactNotes(compact)
}
