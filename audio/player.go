// Package audio turns the engine's named sound triggers into short tones.
//
// TonePlayer synthesizes every sound with sine generators mixed into a
// single speaker stream, so no sample files are needed. Silent satisfies
// the same interface for muted or headless runs.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/wricardo/boxpusher/game/engine"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// Player plays engine sounds until closed
type Player interface {
	engine.Feedback
	Close()
}

// note is one tone of a sound
type note struct {
	freq     float64
	duration time.Duration
}

// Sounds maps each engine sound to the notes it plays in order
var Sounds = map[string][]note{
	engine.SoundWall: {
		{freq: 110, duration: 90 * time.Millisecond},
	},
	engine.SoundCorrect: {
		{freq: 660, duration: 70 * time.Millisecond},
		{freq: 880, duration: 110 * time.Millisecond},
	},
	engine.SoundIncorrect: {
		{freq: 330, duration: 80 * time.Millisecond},
		{freq: 247, duration: 120 * time.Millisecond},
	},
}

// Streamer builds the stream for a named sound
func Streamer(sr beep.SampleRate, name string) (beep.Streamer, bool) {
	notes, ok := Sounds[name]
	if !ok {
		return nil, false
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		sine, err := generators.SineTone(sr, n.freq)
		if err != nil {
			return nil, false
		}
		parts = append(parts, beep.Take(sr.N(n.duration), sine))
	}
	return beep.Seq(parts...), true
}

// TonePlayer plays sounds through the system speaker
type TonePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewTonePlayer creates a player. Sounds are dropped until Init succeeds.
func NewTonePlayer() *TonePlayer {
	return &TonePlayer{
		mixer: &beep.Mixer{},
	}
}

// Init opens the speaker
func (p *TonePlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlaySound queues the named sound; unknown names are ignored
func (p *TonePlayer) PlaySound(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	streamer, ok := Streamer(sampleRate, name)
	if !ok {
		return
	}

	speaker.Lock()
	p.mixer.Add(streamer)
	speaker.Unlock()
}

// Close stops all sounds and releases the speaker
func (p *TonePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// Silent drops every sound
type Silent struct{}

// PlaySound does nothing
func (Silent) PlaySound(string) {}

// Close does nothing
func (Silent) Close() {}

// New returns a speaker-backed player, or Silent when muted or when the
// speaker cannot be opened
func New(muted bool) (Player, error) {
	if muted {
		return Silent{}, nil
	}
	p := NewTonePlayer()
	if err := p.Init(); err != nil {
		return Silent{}, err
	}
	return p, nil
}
