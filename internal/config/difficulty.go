package config

import "math"

// Minimum spawn delay difficulty scaling may reach.
const minSpawnDelayMS = 400

// DifficultyManager derives run parameters from the distance driven or
// the time elapsed in a run.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0).
func (d *DifficultyManager) Level(distance float64, elapsedMS int64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := d.cfg.Progression.MaxAt
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "distance":
		progress = distance / maxAt
	case "time":
		progress = float64(elapsedMS) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed scales a base speed by the current difficulty.
func (d *DifficultyManager) Speed(base float64, distance float64, elapsedMS int64) float64 {
	level := d.Level(distance, elapsedMS)
	return base * (1.0 + level*d.cfg.Scaling.SpeedMultiplier)
}

// SpawnDelay shortens a spawn delay as difficulty rises.
// The result never drops below minSpawnDelayMS unless base already does.
func (d *DifficultyManager) SpawnDelay(baseMS int64, distance float64, elapsedMS int64) int64 {
	level := d.Level(distance, elapsedMS)
	reduced := baseMS - int64(level*float64(d.cfg.Scaling.DelayReductionMS))
	floor := int64(minSpawnDelayMS)
	if baseMS < floor {
		floor = baseMS
	}
	if reduced < floor {
		return floor
	}
	return reduced
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
