package entity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
)

func TestCollidableBoundsInset(t *testing.T) {
	cfg := config.Default()
	p := NewPlayer(cfg)

	b := p.CollidableBounds()
	full := p.Bounds()
	if b.X != full.X+cfg.Player.HitboxInset || b.W != full.W-2*cfg.Player.HitboxInset {
		t.Errorf("CollidableBounds() = %+v, expected inset %v from %+v", b, cfg.Player.HitboxInset, full)
	}
}

func TestSteerPlayer(t *testing.T) {
	tests := []struct {
		name      string
		held      []core.Intent
		fuel      float64
		wantDX    float64
		wantDrain bool
	}{
		{"idle", nil, 100, 0, false},
		{"left", []core.Intent{core.IntentLeft}, 100, -18, true},
		{"right", []core.Intent{core.IntentRight}, 100, 18, true},
		{"left and right cancel", []core.Intent{core.IntentLeft, core.IntentRight}, 100, 0, true},
		{"empty tank", []core.Intent{core.IntentRight}, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			p := NewPlayer(cfg)
			p.Player.Fuel = tc.fuel
			startX := p.Pos.X

			var in core.Input
			for _, i := range tc.held {
				in.Hold(i)
			}
			SteerPlayer(p, in, 0.1)

			if dx := p.Pos.X - startX; math.Abs(dx-tc.wantDX) > 1e-9 {
				t.Errorf("dx = %v, expected %v", dx, tc.wantDX)
			}
			drained := p.Player.Fuel < tc.fuel
			if drained != tc.wantDrain {
				t.Errorf("drained = %v, expected %v (fuel %v)", drained, tc.wantDrain, p.Player.Fuel)
			}
			if !tc.wantDrain && p.Player.DrainRate != 0 {
				t.Errorf("DrainRate = %v, expected 0 when not burning fuel", p.Player.DrainRate)
			}
		})
	}
}

func TestSteerPlayerStaysOnRoad(t *testing.T) {
	cfg := config.Default()
	p := NewPlayer(cfg)

	var in core.Input
	in.Hold(core.IntentLeft)
	in.Hold(core.IntentUp)
	for i := 0; i < 100; i++ {
		SteerPlayer(p, in, 0.1)
	}
	if p.Pos.X != cfg.PlayerMinX() {
		t.Errorf("X = %v, expected clamp to %v", p.Pos.X, cfg.PlayerMinX())
	}
	if p.Pos.Y != 0 {
		t.Errorf("Y = %v, expected clamp to 0", p.Pos.Y)
	}
	if p.Player.Fuel < 0 {
		t.Errorf("Fuel = %v, must never go negative", p.Player.Fuel)
	}
}

func TestAddFuelClamps(t *testing.T) {
	p := NewPlayer(config.Default()).Player
	p.Fuel = 95
	p.AddFuel(20)
	if p.Fuel != p.MaxFuel {
		t.Errorf("Fuel = %v, expected clamp to %v", p.Fuel, p.MaxFuel)
	}
}

func TestOscillationOffset(t *testing.T) {
	tests := []struct {
		pattern Pattern
		phase   float64
		want    float64
	}{
		{PatternNone, 1, 0},
		{PatternSine, 0, 0},
		{PatternSine, math.Pi / 2, 10},
		{PatternZigzag, 0, 0},
		{PatternZigzag, math.Pi / 2, 10},
		{PatternZigzag, math.Pi, 0},
		{PatternZigzag, 3 * math.Pi / 2, -10},
	}

	for _, tc := range tests {
		o := Oscillation{Pattern: tc.pattern, Amplitude: 10, Phase: tc.phase}
		if got := o.Offset(); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Offset(pattern=%d, phase=%v) = %v, expected %v", tc.pattern, tc.phase, got, tc.want)
		}
	}
}

func obstacleEnv(cfg config.Config, now int64, player *Entity, siblings ...*Entity) ObstacleEnv {
	return ObstacleEnv{
		Now:          now,
		Secs:         0.1,
		Lanes:        cfg.Lanes,
		Player:       player,
		Siblings:     siblings,
		MinGap:       cfg.Obstacles.MinGap,
		SafeDistance: cfg.Obstacles.LaneChange.SafeDistance,
		LateralRatio: cfg.Obstacles.LaneChange.LateralRatio,
	}
}

func TestAdvanceObstacleDescends(t *testing.T) {
	cfg := config.Default()
	o := NewObstacle(cfg, 0, 300, VariantCar)
	AdvanceObstacle(o, obstacleEnv(cfg, 100, nil, o))
	if want := -cfg.Obstacles.Height + 30; o.Pos.Y != want {
		t.Errorf("Y = %v, expected %v", o.Pos.Y, want)
	}
	if o.Pos.X != cfg.Lanes[0] {
		t.Errorf("X = %v, expected lane anchor %v", o.Pos.X, cfg.Lanes[0])
	}
}

func TestAdvanceObstacleFrozen(t *testing.T) {
	cfg := config.Default()
	o := NewObstacle(cfg, 0, 300, VariantCar)
	o.Freeze()
	y := o.Pos.Y
	AdvanceObstacle(o, obstacleEnv(cfg, 100, nil, o))
	if o.Pos.Y != y {
		t.Errorf("frozen obstacle moved from %v to %v", y, o.Pos.Y)
	}
}

func TestAdvanceObstacleKeepsGap(t *testing.T) {
	cfg := config.Default()
	ahead := NewObstacle(cfg, 0, 300, VariantBus)
	ahead.Pos.Y = 200
	behind := NewObstacle(cfg, 0, 390, VariantCar)
	behind.Pos.Y = 200 - cfg.Obstacles.Height - 10

	AdvanceObstacle(behind, obstacleEnv(cfg, 100, nil, ahead, behind))
	if behind.Vel.Y != 300 {
		t.Errorf("behind speed = %v, expected to match leader at 300", behind.Vel.Y)
	}

	other := NewObstacle(cfg, 1, 390, VariantCar)
	other.Pos.Y = behind.Pos.Y
	AdvanceObstacle(other, obstacleEnv(cfg, 100, nil, ahead, other))
	if other.Vel.Y != 390 {
		t.Errorf("obstacle in another lane slowed to %v", other.Vel.Y)
	}
}

func TestLaneChange(t *testing.T) {
	cfg := config.Default()
	player := NewPlayer(cfg) // y = 500
	o := NewObstacle(cfg, 0, 300, VariantCar)
	o.Pos.Y = 50
	o.Obstacle.Change = LaneChange{Eligible: true, TriggerY: 60, Direction: 1}

	// Reaches trigger y on this tick
	AdvanceObstacle(o, obstacleEnv(cfg, 0, player, o))
	if o.Obstacle.Change.State != LaneChanging {
		t.Fatalf("State = %d, expected LaneChanging", o.Obstacle.Change.State)
	}
	if !o.Obstacle.Occupies(0) || !o.Obstacle.Occupies(1) {
		t.Error("changing obstacle should occupy both lanes")
	}
	// dx = 120, lateral = 150 px/s
	if o.Obstacle.Change.Duration != 800 {
		t.Errorf("Duration = %d, expected 800", o.Obstacle.Change.Duration)
	}

	AdvanceObstacle(o, obstacleEnv(cfg, 400, player, o))
	if want := (cfg.Lanes[0] + cfg.Lanes[1]) / 2; math.Abs(o.Pos.X-want) > 1e-9 {
		t.Errorf("halfway X = %v, expected %v", o.Pos.X, want)
	}

	AdvanceObstacle(o, obstacleEnv(cfg, 800, player, o))
	if o.Obstacle.Change.State != LaneChanged || o.Obstacle.Lane != 1 {
		t.Errorf("after duration: state=%d lane=%d, expected changed into lane 1", o.Obstacle.Change.State, o.Obstacle.Lane)
	}
	if o.Pos.X != cfg.Lanes[1] {
		t.Errorf("X = %v, expected %v", o.Pos.X, cfg.Lanes[1])
	}
}

func TestLaneChangeWaitsForSafeDistance(t *testing.T) {
	cfg := config.Default()
	player := NewPlayer(cfg)
	o := NewObstacle(cfg, 0, 300, VariantCar)
	o.Pos.Y = player.Pos.Y - 100
	o.Obstacle.Change = LaneChange{Eligible: true, TriggerY: 0, Direction: 1}

	AdvanceObstacle(o, obstacleEnv(cfg, 0, player, o))
	if o.Obstacle.Change.State != LaneIdle {
		t.Error("lane change started too close to the player")
	}
}

func TestLaneChangeBlockedBySibling(t *testing.T) {
	cfg := config.Default()
	o := NewObstacle(cfg, 0, 300, VariantCar)
	o.Pos.Y = 50
	o.Obstacle.Change = LaneChange{Eligible: true, TriggerY: 0, Direction: 1}
	blocker := NewObstacle(cfg, 1, 300, VariantCar)
	blocker.Pos.Y = 60

	AdvanceObstacle(o, obstacleEnv(cfg, 0, nil, o, blocker))
	if o.Obstacle.Change.State != LaneIdle {
		t.Error("lane change started into an occupied lane")
	}
}

func TestExplosionLifetime(t *testing.T) {
	cfg := config.Default().Effects
	rng := rand.New(rand.NewSource(1))
	e := NewExplosion(cfg, core.Vec2{X: 10, Y: 10}, cfg.CrashParticles, 0, rng)

	if len(e.Effect.Particles) != cfg.CrashParticles {
		t.Fatalf("particles = %d, expected %d", len(e.Effect.Particles), cfg.CrashParticles)
	}
	for _, p := range e.Effect.Particles {
		if p.Life < cfg.ParticleLifeMinMS || p.Life > cfg.ParticleLifeMaxMS {
			t.Errorf("particle life %d outside [%d, %d]", p.Life, cfg.ParticleLifeMinMS, cfg.ParticleLifeMaxMS)
		}
	}

	e.Freeze()
	for now := int64(0); now <= cfg.ParticleLifeMaxMS; now += 100 {
		AdvanceEffect(e, now, 100)
	}
	if e.Alive {
		t.Errorf("explosion still alive with %d particles", len(e.Effect.Particles))
	}
}

func TestFloatingTextRises(t *testing.T) {
	cfg := config.Default().Effects
	e := NewFloatingText(cfg, core.Vec2{X: 0, Y: 100}, "+20", core.ColorGold, 0)

	AdvanceEffect(e, cfg.FloatingTextMS/2, 16)
	if want := 100 - cfg.FloatingTextRise/2; math.Abs(e.Pos.Y-want) > 1e-9 {
		t.Errorf("Y = %v, expected %v", e.Pos.Y, want)
	}
	AdvanceEffect(e, cfg.FloatingTextMS, 16)
	if e.Alive {
		t.Error("floating text should expire after its duration")
	}
}
