// Package audio decodes song files and drives the speaker. It implements
// the engine's Source on top of faiface/beep.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Track is a decoded song: the mono sample buffer the analyzer consumes
// plus the seekable streamer playback uses.
type Track struct {
	Samples    []float64 // left channel, normalized to [-1, 1]
	SampleRate int

	streamer beep.StreamSeekCloser
	format   beep.Format
}

// Decode opens and fully decodes an mp3, ogg or wav file. An unreadable or
// empty file is an error here, before any engine exists.
func Decode(file string) (*Track, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch path.Ext(file) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported audio format %q", path.Ext(file))
	}
	if nil != err {
		f.Close()
		return nil, fmt.Errorf("unable to decode %v: %w", file, err)
	}

	// Pull the whole track through once for analysis, then rewind for
	// playback. Only the left channel feeds the analyzer.
	samples := make([]float64, 0, streamer.Len())
	buf := make([][2]float64, 512)
	for {
		n, ok := streamer.Stream(buf)
		for i := 0; i < n; i++ {
			samples = append(samples, buf[i][0])
		}
		if !ok {
			break
		}
	}
	if len(samples) == 0 {
		streamer.Close()
		return nil, errors.New("no samples decoded")
	}
	if err := streamer.Seek(0); nil != err {
		streamer.Close()
		return nil, fmt.Errorf("unable to rewind track: %w", err)
	}

	return &Track{
		Samples:    samples,
		SampleRate: int(format.SampleRate),
		streamer:   streamer,
		format:     format,
	}, nil
}

// Duration is the playable length of the track.
func (t *Track) Duration() time.Duration {
	return t.format.SampleRate.D(len(t.Samples))
}

func (t *Track) Close() error {
	return t.streamer.Close()
}

// Player owns the speaker for one track. The most recent samples pushed to
// the speaker are kept in a ring buffer for the visualizer to tap.
type Player struct {
	track  *Track
	volume float64
	ctrl   *beep.Ctrl

	mu     sync.Mutex
	ring   []float64
	w      int
	filled int
}

// NewPlayer initializes the speaker for the track's sample rate. volume is
// in dB relative to the source, 0 leaving it untouched.
func NewPlayer(track *Track, volume float64) (*Player, error) {
	sr := track.format.SampleRate
	if err := speaker.Init(sr, sr.N(time.Second/30)); nil != err {
		return nil, fmt.Errorf("unable to initialize speaker: %w", err)
	}
	return &Player{
		track:  track,
		volume: volume,
		ring:   make([]float64, 4096),
	}, nil
}

// Play rewinds the track and starts the speaker from offset zero.
func (p *Player) Play() error {
	if err := p.track.streamer.Seek(0); nil != err {
		return fmt.Errorf("unable to rewind track: %w", err)
	}
	p.ctrl = &beep.Ctrl{Streamer: &tap{s: p.track.streamer, p: p}}
	speaker.Play(&effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   p.volume,
	})
	return nil
}

func (p *Player) Pause() {
	if nil == p.ctrl {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

func (p *Player) Resume() {
	if nil == p.ctrl {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
}

// Stop silences the speaker and drops the tap ring, so frames after a
// restart never reflect pre-restart audio.
func (p *Player) Stop() {
	speaker.Clear()
	p.ctrl = nil

	p.mu.Lock()
	for i := range p.ring {
		p.ring[i] = 0
	}
	p.w = 0
	p.filled = 0
	p.mu.Unlock()
}

func (p *Player) Duration() time.Duration {
	return p.track.Duration()
}

// Tap copies the most recently played mono samples into dst, oldest first,
// and returns how many were copied.
func (p *Player) Tap(dst []float64) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(dst)
	if n > p.filled {
		n = p.filled
	}
	start := (p.w - n + len(p.ring)) % len(p.ring)
	for i := 0; i < n; i++ {
		dst[i] = p.ring[(start+i)%len(p.ring)]
	}
	return n
}

func (p *Player) push(samples [][2]float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range samples {
		p.ring[p.w] = s[0]
		p.w = (p.w + 1) % len(p.ring)
		if p.filled < len(p.ring) {
			p.filled++
		}
	}
}

// tap mirrors everything it streams into the player's ring buffer. It runs
// on the speaker goroutine; push serializes access for the render loop.
type tap struct {
	s beep.Streamer
	p *Player
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.p.push(samples[:n])
	return n, ok
}

func (t *tap) Err() error {
	return t.s.Err()
}
