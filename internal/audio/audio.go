// Package audio plays short synthesized cues for game feedback.
// Playback is fire-and-forget: a missing or failing sound device never
// reaches the caller.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-pong/internal/core"
)

const sampleRate = beep.SampleRate(44100)

// Player plays feedback cues.
type Player interface {
	Play(c core.Cue)
	Close()
}

// Nop is a Player that stays silent.
type Nop struct{}

func (Nop) Play(core.Cue) {}
func (Nop) Close()        {}

// SpeakerPlayer mixes cues onto the system speaker.
type SpeakerPlayer struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	closed bool
}

// NewSpeaker opens the sound device. volume is in halvings relative to full
// scale: 0 is full, -1 half, -2 a quarter.
func NewSpeaker(volume float64) (*SpeakerPlayer, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}
	p := &SpeakerPlayer{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
	speaker.Play(p.mixer)
	return p, nil
}

// Play queues a cue. Unknown cues and playback after Close are ignored.
func (p *SpeakerPlayer) Play(c core.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	s := CueStreamer(c, sampleRate)
	if s == nil {
		return
	}
	vol := &effects.Volume{Streamer: s, Base: 2, Volume: p.volume}

	speaker.Lock()
	p.mixer.Add(vol)
	speaker.Unlock()
}

// Close stops playback and releases the device.
func (p *SpeakerPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

// Open returns a speaker player, or Nop when sound is disabled or the device
// cannot be opened. The error is returned for logging only.
func Open(enabled bool, volume float64) (Player, error) {
	if !enabled {
		return Nop{}, nil
	}
	p, err := NewSpeaker(volume)
	if err != nil {
		return Nop{}, err
	}
	return p, nil
}
