// Package entity defines the things that live on the road: the player car,
// obstacle vehicles, pickups, projectiles and transient visual effects.
//
// Every entity shares one struct with a Kind tag. Behaviour that differs per
// kind lives in the Advance* functions and in the kind-specific payloads.
package entity

import "github.com/vovakirdan/lane-racer/internal/core"

// Kind identifies what an entity is.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindObstacle
	KindFuelPickup
	KindGhostPickup
	KindWeaponPickup
	KindProjectile
	KindEffect
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindObstacle:
		return "obstacle"
	case KindFuelPickup:
		return "fuel"
	case KindGhostPickup:
		return "ghost"
	case KindWeaponPickup:
		return "weapon"
	case KindProjectile:
		return "projectile"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// IsPickup reports whether the kind is one of the collectible pickups.
func (k Kind) IsPickup() bool {
	return k == KindFuelPickup || k == KindGhostPickup || k == KindWeaponPickup
}

// Entity is a positioned, sized object in world space.
// Position is the top-left corner, y grows downward.
type Entity struct {
	Kind  Kind
	Pos   core.Vec2
	W, H  float64
	Vel   core.Vec2 // Pixels per second
	Inset float64   // Shrinks the hitbox on every side

	Alive  bool // False once consumed, destroyed or scrolled away
	Frozen bool // Set on every simulation entity when the session ends

	Player   *PlayerData
	Obstacle *ObstacleData
	Pickup   *PickupData
	Effect   *EffectData
}

// Bounds returns the full drawn rectangle.
func (e *Entity) Bounds() core.Bounds {
	return core.NewBounds(e.Pos.X, e.Pos.Y, e.W, e.H)
}

// CollidableBounds returns the rectangle used for overlap tests.
func (e *Entity) CollidableBounds() core.Bounds {
	return e.Bounds().Inset(e.Inset)
}

// Center returns the center point of the entity.
func (e *Entity) Center() core.Vec2 {
	return e.Bounds().Center()
}

// Kill marks the entity for removal.
func (e *Entity) Kill() {
	e.Alive = false
}

// Freeze stops the entity from moving for the rest of the session.
func (e *Entity) Freeze() {
	e.Frozen = true
	e.Vel = core.Vec2{}
}

// OffScreen reports whether the entity has fully left a field of the given height.
func (e *Entity) OffScreen(height float64) bool {
	return e.Pos.Y > height || e.Pos.Y+e.H < 0
}

// move integrates velocity over secs unless the entity is frozen.
func (e *Entity) move(secs float64) {
	if e.Frozen || !e.Alive {
		return
	}
	e.Pos = e.Pos.Add(e.Vel.Scale(secs))
}
