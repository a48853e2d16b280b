package config

import (
	_ "embed"
)

//go:embed defaults/racer.yaml
var defaultRacerYAML []byte

// Default returns the hardcoded configuration. It matches the embedded
// defaults/racer.yaml and is used when that file cannot be parsed.
func Default() Config {
	return Config{
		Screen: ScreenConfig{Width: 400, Height: 600},
		Lanes:  []float64{100, 220},
		Player: PlayerConfig{
			X:           200,
			Y:           500,
			Width:       60,
			Height:      100,
			HitboxInset: 6,
			Speed:       180,
			MaxFuel:     100,
			FuelDrain:   3,
			SideMargin:  100,
		},
		Track: TrackConfig{
			ScrollSpeed:      300,
			DistancePerPoint: 50,
			DashLength:       40,
			DashGap:          30,
		},
		Obstacles: ObstacleConfig{
			Width:           60,
			Height:          110,
			HitboxInset:     6,
			SpeedMin:        330,
			SpeedMax:        390,
			InitialDelayMS:  1000,
			SpawnDelayMinMS: 1000,
			SpawnDelayMaxMS: 2500,
			SpawnClearanceY: 150,
			DangerBand:      250,
			LaneCooldownMS:  2000,
			MinGap:          30,
			LaneChange: LaneChangeConfig{
				Chance:       0.2,
				TriggerMinY:  40,
				TriggerMaxY:  220,
				SafeDistance: 220,
				LateralRatio: 0.5,
			},
			Oscillation: OscillationConfig{
				Chance:       0.35,
				AmplitudeMin: 4,
				AmplitudeMax: 14,
				SpeedMin:     1.5,
				SpeedMax:     3.5,
			},
		},
		Pickups: PickupConfig{
			Width:       40,
			Height:      40,
			HitboxInset: 2,
			Speed:       300,
			LaneBand:    150,
			Fuel: FuelPickupConfig{
				PickupSpawn:       PickupSpawn{CooldownMS: 3000, Rate: 0.3, ClearanceY: 200},
				LowFuelCooldownMS: 1500,
				LowFuelThreshold:  0.6,
				Amount:            20,
			},
			Ghost: PowerUpConfig{
				PickupSpawn: PickupSpawn{CooldownMS: 6000, Rate: 0.18, ClearanceY: 250},
				DurationMS:  8000,
				BlinkMS:     3000,
			},
			Weapon: PowerUpConfig{
				PickupSpawn: PickupSpawn{CooldownMS: 8000, Rate: 0.06, ClearanceY: 250},
				DurationMS:  10000,
				BlinkMS:     2000,
			},
		},
		Weapon: WeaponConfig{
			ProjectileWidth:  10,
			ProjectileHeight: 24,
			ProjectileSpeed:  600,
			FireCooldownMS:   250,
			Bonus:            20,
		},
		Effects: EffectsConfig{
			CrashParticles:    50,
			KillParticles:     30,
			ParticleLifeMinMS: 300,
			ParticleLifeMaxMS: 800,
			ParticleSpeedMin:  30,
			ParticleSpeedMax:  180,
			FloatingTextMS:    1500,
			FloatingTextRise:  30,
		},
		Session: SessionConfig{
			PostTerminalDelayMS: 2000,
			FadeSpeed:           400,
			BlinkIntervalMS:     200,
			MaxNameLength:       15,
			LeaderboardSize:     10,
			CreditsRowDelay:     0.1,
			CreditsAnimDuration: 0.4,
			CreditsStartOffset:  0.3,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "distance",
				MaxAt: 90000, // Five minutes of road at the default scroll speed
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  0.4,
				DelayReductionMS: 500,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRacerYAML
}
