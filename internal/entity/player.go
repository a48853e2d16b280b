package entity

import (
	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
)

// PowerUp names a timed player effect.
type PowerUp uint8

const (
	PowerUpGhost PowerUp = iota
	PowerUpWeapon
)

// String returns a human-readable name for the power-up.
func (p PowerUp) String() string {
	switch p {
	case PowerUpGhost:
		return "ghost"
	case PowerUpWeapon:
		return "weapon"
	default:
		return "unknown"
	}
}

// EffectState is the lifecycle stage of a timed power-up.
type EffectState uint8

const (
	EffectInactive EffectState = iota
	EffectActive
	EffectBlinking
)

// String returns a human-readable name for the state.
func (s EffectState) String() string {
	switch s {
	case EffectInactive:
		return "inactive"
	case EffectActive:
		return "active"
	case EffectBlinking:
		return "blinking"
	default:
		return "unknown"
	}
}

// PowerUpTimer tracks one timed effect on the player.
// Transitions are driven by the resolve package.
type PowerUpTimer struct {
	State          EffectState
	StartedAt      int64 // ms
	EndTime        int64 // ms
	BlinkThreshold int64 // Remaining ms below which the effect blinks
}

// Remaining returns the milliseconds left before the effect ends, never negative.
func (t PowerUpTimer) Remaining(now int64) int64 {
	if t.State == EffectInactive || t.EndTime <= now {
		return 0
	}
	return t.EndTime - now
}

// PlayerData is the player-specific payload.
type PlayerData struct {
	Speed float64 // Lateral and vertical steering speed

	Fuel            float64
	MaxFuel         float64
	BaseDrain       float64 // Configured drain per second while steering
	DrainRate       float64 // Drain applied this tick, zero when not steering
	FuelAtTickStart float64

	MinX, MaxX float64
	MinY, MaxY float64

	Ghost  PowerUpTimer
	Weapon PowerUpTimer

	Distance float64 // Pixels of road scrolled past
	Bonus    int     // Points earned from destroyed obstacles
	LastFire int64   // ms of the last projectile, or a large negative value
}

// Timer returns the timer for a power-up.
func (p *PlayerData) Timer(pu PowerUp) *PowerUpTimer {
	if pu == PowerUpWeapon {
		return &p.Weapon
	}
	return &p.Ghost
}

// FuelRatio returns fuel as a fraction of the tank.
func (p *PlayerData) FuelRatio() float64 {
	if p.MaxFuel <= 0 {
		return 0
	}
	return p.Fuel / p.MaxFuel
}

// AddFuel refuels the tank, clamped to capacity.
func (p *PlayerData) AddFuel(amount float64) {
	p.Fuel = core.ClampF(p.Fuel+amount, 0, p.MaxFuel)
}

// NewPlayer creates the player car at its configured start position.
func NewPlayer(cfg config.Config) *Entity {
	e := &Entity{
		Kind:   KindPlayer,
		W:      cfg.Player.Width,
		H:      cfg.Player.Height,
		Inset:  cfg.Player.HitboxInset,
		Player: &PlayerData{},
	}
	ResetPlayer(e, cfg)
	return e
}

// ResetPlayer restores position, fuel and effects to their start values.
func ResetPlayer(e *Entity, cfg config.Config) {
	e.Pos = core.Vec2{
		X: core.ClampF(cfg.Player.X, cfg.PlayerMinX(), cfg.PlayerMaxX()),
		Y: cfg.Player.Y,
	}
	e.Vel = core.Vec2{}
	e.Alive = true
	e.Frozen = false
	*e.Player = PlayerData{
		Speed:           cfg.Player.Speed,
		Fuel:            cfg.Player.MaxFuel,
		MaxFuel:         cfg.Player.MaxFuel,
		BaseDrain:       cfg.Player.FuelDrain,
		FuelAtTickStart: cfg.Player.MaxFuel,
		MinX:            cfg.PlayerMinX(),
		MaxX:            cfg.PlayerMaxX(),
		MinY:            0,
		MaxY:            cfg.Screen.Height - cfg.Player.Height,
		LastFire:        -1 << 40,
	}
}

// SteerPlayer moves the player by the held directional intents and burns
// fuel while any of them is held. An empty tank leaves the car stalled.
func SteerPlayer(e *Entity, in core.Input, secs float64) {
	p := e.Player
	p.DrainRate = 0
	e.Vel = core.Vec2{}
	if e.Frozen || !in.Steering() || p.Fuel <= 0 {
		return
	}

	if in.Holding(core.IntentLeft) {
		e.Vel.X -= p.Speed
	}
	if in.Holding(core.IntentRight) {
		e.Vel.X += p.Speed
	}
	if in.Holding(core.IntentUp) {
		e.Vel.Y -= p.Speed
	}
	if in.Holding(core.IntentDown) {
		e.Vel.Y += p.Speed
	}
	e.move(secs)
	e.Pos.X = core.ClampF(e.Pos.X, p.MinX, p.MaxX)
	e.Pos.Y = core.ClampF(e.Pos.Y, p.MinY, p.MaxY)

	p.DrainRate = p.BaseDrain
	p.Fuel = core.ClampF(p.Fuel-p.DrainRate*secs, 0, p.MaxFuel)
}
