// Package audio plays procedural sound effects for gameplay events.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Event ids understood by Play. They match the resolver's event names.
const (
	SoundCollision         = "collision"
	SoundPickup            = "pickup"
	SoundWeaponFired       = "weapon_fired"
	SoundObstacleDestroyed = "obstacle_destroyed"
	SoundFuelOut           = "fuel_out"
	SoundMenu              = "menu"
)

// Player mixes short generated sounds onto the default speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewPlayer creates a player. volume is in the beep effects.Volume scale,
// where 0 is unchanged and negative values are quieter.
func NewPlayer(volume float64) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize opens the audio device. It is safe to call more than once.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences the mixer and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// Play starts the sound for event id. Unknown ids are ignored.
func (p *Player) Play(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	s := Sound(id)
	if s == nil {
		return
	}
	vol := &effects.Volume{Streamer: s, Base: 2, Volume: p.volume}

	speaker.Lock()
	p.mixer.Add(vol)
	speaker.Unlock()
}

// Sound returns a finite streamer for event id, or nil.
func Sound(id string) beep.Streamer {
	switch id {
	case SoundCollision:
		return beep.Take(sampleRate.N(450*time.Millisecond), newNoiseBurst(sampleRate, 6, 70))
	case SoundPickup:
		return beep.Seq(
			newTone(sampleRate, 660, 60*time.Millisecond, waveSine),
			newTone(sampleRate, 990, 90*time.Millisecond, waveSine),
		)
	case SoundWeaponFired:
		return beep.Take(sampleRate.N(120*time.Millisecond), newSweep(sampleRate, 1400, 300))
	case SoundObstacleDestroyed:
		return beep.Take(sampleRate.N(250*time.Millisecond), newNoiseBurst(sampleRate, 12, 140))
	case SoundFuelOut:
		return beep.Seq(
			newTone(sampleRate, 330, 150*time.Millisecond, waveSquare),
			newTone(sampleRate, 220, 150*time.Millisecond, waveSquare),
			newTone(sampleRate, 147, 300*time.Millisecond, waveSquare),
		)
	case SoundMenu:
		return newTone(sampleRate, 880, 30*time.Millisecond, waveSine)
	}
	return nil
}

// Nop discards every sound. It is used with --mute and when no device opens.
type Nop struct{}

// Play does nothing.
func (Nop) Play(string) {}
