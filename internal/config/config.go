// Package config provides YAML-based configuration loading, validation and
// difficulty management for the racer.
package config

// Config holds every tunable the session is built from: screen geometry,
// lane layout, entity sizes, speeds and timing windows.
// Durations are in milliseconds, speeds in pixels per second.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Lanes      []float64        `yaml:"lanes"`
	Player     PlayerConfig     `yaml:"player"`
	Track      TrackConfig      `yaml:"track"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Pickups    PickupConfig     `yaml:"pickups"`
	Weapon     WeaponConfig     `yaml:"weapon"`
	Effects    EffectsConfig    `yaml:"effects"`
	Session    SessionConfig    `yaml:"session"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// ScreenConfig is the size of the simulated play field in pixels.
type ScreenConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig defines the player vehicle.
type PlayerConfig struct {
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	HitboxInset float64 `yaml:"hitbox_inset"`
	Speed       float64 `yaml:"speed"`
	MaxFuel     float64 `yaml:"max_fuel"`
	FuelDrain   float64 `yaml:"fuel_drain"`  // Units per second while steering
	SideMargin  float64 `yaml:"side_margin"` // Road shoulder the player cannot enter
}

// TrackConfig defines the scrolling road.
type TrackConfig struct {
	ScrollSpeed      float64 `yaml:"scroll_speed"`
	DistancePerPoint float64 `yaml:"distance_per_point"`
	DashLength       float64 `yaml:"dash_length"`
	DashGap          float64 `yaml:"dash_gap"`
}

// ObstacleConfig defines obstacle vehicles and the obstacle spawn windows.
type ObstacleConfig struct {
	Width           float64           `yaml:"width"`
	Height          float64           `yaml:"height"`
	HitboxInset     float64           `yaml:"hitbox_inset"`
	SpeedMin        float64           `yaml:"speed_min"`
	SpeedMax        float64           `yaml:"speed_max"`
	InitialDelayMS  int64             `yaml:"initial_delay_ms"`
	SpawnDelayMinMS int64             `yaml:"spawn_delay_min_ms"`
	SpawnDelayMaxMS int64             `yaml:"spawn_delay_max_ms"`
	SpawnClearanceY float64           `yaml:"spawn_clearance_y"`
	DangerBand      float64           `yaml:"danger_band"`
	LaneCooldownMS  int64             `yaml:"lane_cooldown_ms"`
	MinGap          float64           `yaml:"min_gap"`
	LaneChange      LaneChangeConfig  `yaml:"lane_change"`
	Oscillation     OscillationConfig `yaml:"oscillation"`
}

// LaneChangeConfig controls obstacles that switch lanes mid-descent.
type LaneChangeConfig struct {
	Chance       float64 `yaml:"chance"` // Fraction of obstacles eligible, at most 0.2
	TriggerMinY  float64 `yaml:"trigger_min_y"`
	TriggerMaxY  float64 `yaml:"trigger_max_y"`
	SafeDistance float64 `yaml:"safe_distance"` // Minimum vertical distance to the player
	LateralRatio float64 `yaml:"lateral_ratio"` // Lateral speed as a fraction of descent speed
}

// OscillationConfig controls the sideways wobble of obstacles.
type OscillationConfig struct {
	Chance       float64 `yaml:"chance"`
	AmplitudeMin float64 `yaml:"amplitude_min"`
	AmplitudeMax float64 `yaml:"amplitude_max"`
	SpeedMin     float64 `yaml:"speed_min"` // Radians per second
	SpeedMax     float64 `yaml:"speed_max"`
}

// PickupConfig defines pickups and their spawn windows.
type PickupConfig struct {
	Width       float64          `yaml:"width"`
	Height      float64          `yaml:"height"`
	HitboxInset float64          `yaml:"hitbox_inset"`
	Speed       float64          `yaml:"speed"`
	LaneBand    float64          `yaml:"lane_band"` // Entities above this y block a lane for pickups
	Fuel        FuelPickupConfig `yaml:"fuel"`
	Ghost       PowerUpConfig    `yaml:"ghost"`
	Weapon      PowerUpConfig    `yaml:"weapon"`
}

// PickupSpawn is the spawn window shared by every pickup kind.
type PickupSpawn struct {
	CooldownMS int64   `yaml:"cooldown_ms"`
	Rate       float64 `yaml:"rate"` // Expected spawns per second once off cooldown
	ClearanceY float64 `yaml:"clearance_y"`
}

// FuelPickupConfig defines fuel cans.
type FuelPickupConfig struct {
	PickupSpawn       `yaml:",inline"`
	LowFuelCooldownMS int64   `yaml:"low_fuel_cooldown_ms"`
	LowFuelThreshold  float64 `yaml:"low_fuel_threshold"` // Fraction of max fuel
	Amount            float64 `yaml:"amount"`
}

// PowerUpConfig defines a timed power-up pickup.
type PowerUpConfig struct {
	PickupSpawn `yaml:",inline"`
	DurationMS  int64 `yaml:"duration_ms"`
	BlinkMS     int64 `yaml:"blink_ms"`
}

// WeaponConfig defines projectiles fired while the weapon is active.
type WeaponConfig struct {
	ProjectileWidth  float64 `yaml:"projectile_width"`
	ProjectileHeight float64 `yaml:"projectile_height"`
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
	FireCooldownMS   int64   `yaml:"fire_cooldown_ms"`
	Bonus            int     `yaml:"bonus"`
}

// EffectsConfig defines explosions and floating score text.
type EffectsConfig struct {
	CrashParticles    int     `yaml:"crash_particles"`
	KillParticles     int     `yaml:"kill_particles"`
	ParticleLifeMinMS int64   `yaml:"particle_life_min_ms"`
	ParticleLifeMaxMS int64   `yaml:"particle_life_max_ms"`
	ParticleSpeedMin  float64 `yaml:"particle_speed_min"`
	ParticleSpeedMax  float64 `yaml:"particle_speed_max"`
	FloatingTextMS    int64   `yaml:"floating_text_ms"`
	FloatingTextRise  float64 `yaml:"floating_text_rise"`
}

// SessionConfig defines state machine timing and the leaderboard.
type SessionConfig struct {
	PostTerminalDelayMS int64   `yaml:"post_terminal_delay_ms"`
	FadeSpeed           float64 `yaml:"fade_speed"` // Alpha units (0..255) per second
	BlinkIntervalMS     int64   `yaml:"blink_interval_ms"`
	MaxNameLength       int     `yaml:"max_name_length"`
	LeaderboardSize     int     `yaml:"leaderboard_size"`
	CreditsRowDelay     float64 `yaml:"credits_row_delay"`     // Seconds between rows
	CreditsAnimDuration float64 `yaml:"credits_anim_duration"` // Seconds per row
	CreditsStartOffset  float64 `yaml:"credits_start_offset"`  // Fraction of screen height
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "distance", "time", or "none"
	MaxAt float64 `yaml:"max_at"` // Pixels or milliseconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`   // Added to obstacle speed at max difficulty
	DelayReductionMS int64   `yaml:"delay_reduction_ms"` // Removed from spawn delays at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// PlayerMinX returns the leftmost x the player may reach.
func (c Config) PlayerMinX() float64 {
	return c.Player.SideMargin
}

// PlayerMaxX returns the rightmost x the player may reach.
func (c Config) PlayerMaxX() float64 {
	return c.Screen.Width - c.Player.SideMargin - c.Player.Width
}
