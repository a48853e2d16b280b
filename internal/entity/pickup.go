package entity

import (
	"fmt"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
)

// PickupData is the payload shared by fuel cans and power-ups.
type PickupData struct {
	Lane int
}

// NewPickup creates a pickup of the given kind centered in lane, just above the screen.
func NewPickup(cfg config.Config, kind Kind, lane int) *Entity {
	if !kind.IsPickup() {
		panic(fmt.Sprintf("entity: %s is not a pickup kind", kind))
	}
	x := cfg.Lanes[lane] + (cfg.Obstacles.Width-cfg.Pickups.Width)/2
	return &Entity{
		Kind:   kind,
		Pos:    core.Vec2{X: x, Y: -cfg.Pickups.Height},
		W:      cfg.Pickups.Width,
		H:      cfg.Pickups.Height,
		Vel:    core.Vec2{Y: cfg.Pickups.Speed},
		Inset:  cfg.Pickups.HitboxInset,
		Alive:  true,
		Pickup: &PickupData{Lane: lane},
	}
}

// AdvancePickup moves a pickup down the road.
func AdvancePickup(e *Entity, secs float64) {
	e.move(secs)
}

// NewProjectile creates a projectile leaving the top center of the shooter.
func NewProjectile(cfg config.Config, shooter *Entity) *Entity {
	w, h := cfg.Weapon.ProjectileWidth, cfg.Weapon.ProjectileHeight
	return &Entity{
		Kind:  KindProjectile,
		Pos:   core.Vec2{X: shooter.Pos.X + (shooter.W-w)/2, Y: shooter.Pos.Y - h},
		W:     w,
		H:     h,
		Vel:   core.Vec2{Y: -cfg.Weapon.ProjectileSpeed},
		Alive: true,
	}
}

// AdvanceProjectile moves a projectile up the road.
func AdvanceProjectile(e *Entity, secs float64) {
	e.move(secs)
}
