package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// MaxLaneChangeChance caps the fraction of obstacles allowed to change lanes.
const MaxLaneChangeChance = 0.2

// Validate checks that the configuration can build a playable session.
// All problems are reported at once, each wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		fail("screen size %vx%v must be positive", c.Screen.Width, c.Screen.Height)
	}

	if len(c.Lanes) == 0 {
		fail("at least one lane is required")
	}
	// Lanes run left to right; lane changes step to index ±1.
	for i, x := range c.Lanes {
		if i > 0 {
			switch prev := c.Lanes[i-1]; {
			case x == prev:
				fail("lane %d duplicates x=%v", i, x)
			case x < prev:
				fail("lane %d at x=%v is left of lane %d at x=%v; lanes must be ordered left to right", i, x, i-1, prev)
			}
		}
		if x < 0 || x+c.Obstacles.Width > c.Screen.Width {
			fail("lane %d at x=%v does not fit on a %v wide screen", i, x, c.Screen.Width)
		}
	}

	sizes := []struct {
		name string
		w, h float64
	}{
		{"player", c.Player.Width, c.Player.Height},
		{"obstacle", c.Obstacles.Width, c.Obstacles.Height},
		{"pickup", c.Pickups.Width, c.Pickups.Height},
		{"projectile", c.Weapon.ProjectileWidth, c.Weapon.ProjectileHeight},
	}
	for _, s := range sizes {
		if s.w <= 0 || s.h <= 0 {
			fail("%s size %vx%v must be positive", s.name, s.w, s.h)
		}
	}

	if c.PlayerMaxX() < c.PlayerMinX() {
		fail("side margin %v leaves no room for the player", c.Player.SideMargin)
	}
	if c.Player.MaxFuel <= 0 {
		fail("player max_fuel must be positive")
	}
	if c.Player.FuelDrain < 0 {
		fail("player fuel_drain must not be negative")
	}
	if c.Track.DistancePerPoint <= 0 {
		fail("track distance_per_point must be positive")
	}

	if c.Obstacles.SpawnDelayMinMS <= 0 || c.Obstacles.SpawnDelayMaxMS < c.Obstacles.SpawnDelayMinMS {
		fail("obstacle spawn delay window [%d, %d] is invalid",
			c.Obstacles.SpawnDelayMinMS, c.Obstacles.SpawnDelayMaxMS)
	}
	if c.Obstacles.SpeedMin <= 0 || c.Obstacles.SpeedMax < c.Obstacles.SpeedMin {
		fail("obstacle speed window [%v, %v] is invalid", c.Obstacles.SpeedMin, c.Obstacles.SpeedMax)
	}
	if lc := c.Obstacles.LaneChange; lc.Chance < 0 || lc.Chance > MaxLaneChangeChance {
		fail("lane_change chance %v must be within [0, %v]", lc.Chance, MaxLaneChangeChance)
	}
	if lc := c.Obstacles.LaneChange; lc.Chance > 0 && (lc.LateralRatio <= 0 || lc.TriggerMaxY < lc.TriggerMinY) {
		fail("lane_change needs a positive lateral_ratio and trigger_min_y <= trigger_max_y")
	}

	powerUps := []struct {
		name string
		p    PowerUpConfig
	}{
		{"ghost", c.Pickups.Ghost},
		{"weapon", c.Pickups.Weapon},
	}
	for _, pu := range powerUps {
		if pu.p.DurationMS <= 0 {
			fail("%s duration_ms must be positive", pu.name)
		}
		if pu.p.BlinkMS < 0 || pu.p.BlinkMS > pu.p.DurationMS {
			fail("%s blink_ms %d must be within [0, duration_ms]", pu.name, pu.p.BlinkMS)
		}
	}

	if c.Session.MaxNameLength <= 0 {
		fail("session max_name_length must be positive")
	}
	if c.Session.LeaderboardSize <= 0 {
		fail("session leaderboard_size must be positive")
	}

	return errors.Join(errs...)
}
