// Package input pumps keyboard events and maps them onto game actions.
package input

import (
	"github.com/eiannone/keyboard"

	"git.lost.host/meutraa/beatfall/internal/config"
)

type Action int

const (
	ActionNone Action = iota
	ActionLane
	ActionPause
	ActionRestart
	ActionQuit
)

type Event struct {
	Action Action
	Lane   uint8
}

type Handler struct {
	keys <-chan keyboard.KeyEvent
}

func Open(buffer int) (*Handler, error) {
	keys, err := keyboard.GetKeys(buffer)
	if nil != err {
		return nil, err
	}
	return &Handler{keys: keys}, nil
}

func (h *Handler) Close() error {
	return keyboard.Close()
}

// Poll drains every event that arrived since the last frame.
func (h *Handler) Poll() []Event {
	events := []Event{}
	for i := 0; i < len(h.keys); i++ {
		key := <-h.keys
		events = append(events, translate(key))
	}
	return events
}

func translate(key keyboard.KeyEvent) Event {
	switch key.Key {
	case keyboard.KeyEsc:
		return Event{Action: ActionQuit}
	case keyboard.KeySpace:
		return Event{Action: ActionPause}
	}
	if key.Rune == 'r' {
		return Event{Action: ActionRestart}
	}
	if lane, err := config.KeyLane(key.Rune); nil == err {
		return Event{Action: ActionLane, Lane: lane}
	}
	return Event{Action: ActionNone}
}
