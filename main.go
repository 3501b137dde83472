package main

import (
	"fmt"
	"io/ioutil"
	"log"

	"git.lost.host/meutraa/beatfall/internal/analysis"
	"git.lost.host/meutraa/beatfall/internal/audio"
	"git.lost.host/meutraa/beatfall/internal/config"
	"git.lost.host/meutraa/beatfall/internal/engine"
	"git.lost.host/meutraa/beatfall/internal/game"
	"git.lost.host/meutraa/beatfall/internal/input"
	"git.lost.host/meutraa/beatfall/internal/render"
	"git.lost.host/meutraa/beatfall/internal/store"
	"git.lost.host/meutraa/beatfall/internal/theme"
)

func main() {
	config.Parse()
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

// loadChart returns the cached chart for this exact file content, or runs
// the analyzer and caches the result.
func loadChart(track *audio.Track) (*game.Chart, error) {
	data, err := ioutil.ReadFile(*config.Song)
	if nil != err {
		return nil, err
	}
	sum := store.Sum(data)

	var st store.Store = &store.DefaultStore{}
	if err := st.Init(); nil != err {
		return nil, fmt.Errorf("unable to open chart cache: %w", err)
	}
	defer st.Deinit()

	if !*config.NoCache {
		if notes := st.Load(sum); nil != notes {
			return &game.Chart{Notes: notes}, nil
		}
	}

	notes := analysis.Generate(track.Samples, track.SampleRate, analysis.Params{
		WindowSize: *config.WindowSize,
		Multiplier: *config.Multiplier,
		Floor:      *config.Floor,
		MinNoteGap: *config.NoteGap,
	})
	st.Save(sum, notes)
	return &game.Chart{Notes: notes}, nil
}

func run() error {
	track, err := audio.Decode(*config.Song)
	if nil != err {
		return err
	}
	defer track.Close()

	chart, err := loadChart(track)
	if nil != err {
		return err
	}
	log.Printf("Opening %v (%v notes over %v)\n", *config.Song, len(chart.Notes), chart.Duration())

	player, err := audio.NewPlayer(track, *config.Volume)
	if nil != err {
		return err
	}

	handler, err := input.Open(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := handler.Close(); nil != err {
			log.Println("unable to close keyboard", err)
		}
	}()

	e := engine.New(chart, player)
	e.SetLeadIn(*config.Delay)

	var r render.Renderer = &render.DefaultRenderer{}
	var th theme.Theme = &theme.DefaultTheme{}

	if err := r.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		if err := r.Deinit(); nil != err {
			log.Println("unable to restore terminal", err)
		}
	}()

	return NewProgram(e, r, th, handler).Run()
}
