// Package registry provides a global registry of track layouts.
// Each layout fixes the lane set and road width a session is played on.
// Layouts register themselves in init(), so the CLI and the SSH server can
// list and pick them without hardcoding.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/lane-racer/internal/config"
)

// ErrUnknownTrack is returned when a track ID has not been registered.
var ErrUnknownTrack = errors.New("registry: unknown track")

// DefaultTrack is the layout used when none is selected.
const DefaultTrack = "classic"

// Track describes a road layout.
type Track struct {
	// ID is the unique identifier used on the command line and in score storage.
	ID string

	// Title is the human-readable name.
	Title string

	// Width is the play field width in pixels.
	Width float64

	// Lanes are the left edges of the lanes, in pixels.
	Lanes []float64

	// SideMargin is the road shoulder the player cannot enter.
	SideMargin float64
}

// Apply overrides the layout-dependent parts of cfg.
func (t Track) Apply(cfg *config.Config) {
	cfg.Screen.Width = t.Width
	cfg.Lanes = append([]float64(nil), t.Lanes...)
	cfg.Player.SideMargin = t.SideMargin
	if maxX := cfg.PlayerMaxX(); cfg.Player.X > maxX {
		cfg.Player.X = maxX
	}
	if cfg.Player.X < cfg.PlayerMinX() {
		cfg.Player.X = cfg.PlayerMinX()
	}
}

var (
	tracks = make(map[string]Track)
	mu     sync.RWMutex
)

// Register adds a track layout.
// Panics if a track with the same ID is already registered.
func Register(t Track) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := tracks[t.ID]; exists {
		panic(fmt.Sprintf("registry: track %q already registered", t.ID))
	}
	tracks[t.ID] = t
}

// List returns all registered tracks, sorted by ID.
func List() []Track {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get looks up a track by ID.
func Get(id string) (Track, error) {
	mu.RLock()
	defer mu.RUnlock()

	t, ok := tracks[id]
	if !ok {
		return Track{}, fmt.Errorf("%w %q", ErrUnknownTrack, id)
	}
	return t, nil
}

// Exists checks if a track with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := tracks[id]
	return ok
}

// Configure builds the config for a run on trackID from base: the track
// layout is applied first, then the difficulty preset, then the result is
// validated. An empty trackID selects DefaultTrack.
func Configure(base config.Config, trackID string, preset config.DifficultyPreset) (config.Config, error) {
	if trackID == "" {
		trackID = DefaultTrack
	}
	t, err := Get(trackID)
	if err != nil {
		return base, err
	}

	cfg := base
	cfg.Lanes = append([]float64(nil), base.Lanes...)
	t.Apply(&cfg)
	config.ApplyPreset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
