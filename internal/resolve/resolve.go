// Package resolve applies the consequences of overlaps: pickups, projectile
// hits, crashes and running out of fuel. It also drives the player's timed
// power-up state machine.
package resolve

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/entity"
)

// Event names emitted for the audio sink and observers.
const (
	EventCollision         = "collision"
	EventPickup            = "pickup"
	EventObstacleDestroyed = "obstacle_destroyed"
	EventWeaponFired       = "weapon_fired"
	EventFuelOut           = "fuel_out"
)

// Reason explains why a session ended.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonCollision
	ReasonFuelOut
)

// String returns a human-readable reason.
func (r Reason) String() string {
	switch r {
	case ReasonCollision:
		return "collision"
	case ReasonFuelOut:
		return "fuel_out"
	default:
		return "none"
	}
}

// Outcome collects what resolution produced during one tick.
type Outcome struct {
	Events   []string
	Bonus    int
	Effects  []*entity.Entity // Transient effects to add to the world
	Terminal bool
	Reason   Reason
}

func (o *Outcome) emit(event string) {
	o.Events = append(o.Events, event)
}

// Overlap reports whether the collidable bounds of a and b intersect.
// Touching edges do not count.
func Overlap(a, b *entity.Entity) bool {
	return a.CollidableBounds().Intersects(b.CollidableBounds())
}

// Resolver applies collision consequences using the session configuration.
type Resolver struct {
	cfg config.Config
	rng *rand.Rand
}

// New creates a resolver. rng drives explosion particles only.
func New(cfg config.Config, rng *rand.Rand) *Resolver {
	return &Resolver{cfg: cfg, rng: rng}
}

// TryFire reports whether the player may fire now and records the shot.
func (r *Resolver) TryFire(player *entity.Entity, now int64, out *Outcome) bool {
	p := player.Player
	if player.Frozen || !IsActive(p.Weapon, now) {
		return false
	}
	if now-p.LastFire < r.cfg.Weapon.FireCooldownMS {
		return false
	}
	p.LastFire = now
	out.emit(EventWeaponFired)
	return true
}

// ResolvePickups consumes every pickup the player overlaps.
// A pickup is consumed at most once.
func (r *Resolver) ResolvePickups(player *entity.Entity, pickups []*entity.Entity, now int64, out *Outcome) {
	p := player.Player
	for _, pk := range pickups {
		if !pk.Alive || !Overlap(player, pk) {
			continue
		}
		pk.Kill()
		out.emit(EventPickup)

		switch pk.Kind {
		case entity.KindFuelPickup:
			amount := r.cfg.Pickups.Fuel.Amount
			p.AddFuel(amount)
			out.Effects = append(out.Effects, entity.NewFloatingText(
				r.cfg.Effects, pk.Center(), fmt.Sprintf("+%d", int(amount)), core.ColorBrightGreen, now))
		case entity.KindGhostPickup:
			gc := r.cfg.Pickups.Ghost
			Activate(&p.Ghost, now, gc.DurationMS, gc.BlinkMS)
		case entity.KindWeaponPickup:
			wc := r.cfg.Pickups.Weapon
			Activate(&p.Weapon, now, wc.DurationMS, wc.BlinkMS)
		}
	}
}

// ResolveProjectiles destroys each obstacle hit by a projectile along with
// the projectile, awarding the kill bonus.
func (r *Resolver) ResolveProjectiles(projectiles, obstacles []*entity.Entity, now int64, out *Outcome) {
	for _, pr := range projectiles {
		if !pr.Alive {
			continue
		}
		for _, o := range obstacles {
			if !o.Alive || !Overlap(pr, o) {
				continue
			}
			pr.Kill()
			o.Kill()
			out.Bonus += r.cfg.Weapon.Bonus
			out.emit(EventObstacleDestroyed)
			center := o.Center()
			out.Effects = append(out.Effects,
				entity.NewExplosion(r.cfg.Effects, center, r.cfg.Effects.KillParticles, now, r.rng),
				entity.NewFloatingText(r.cfg.Effects, center, fmt.Sprintf("+%d", r.cfg.Weapon.Bonus), core.ColorGold, now),
			)
			break
		}
	}
}

// CheckCollision ends the session if the player hits an obstacle while not
// a ghost. It reports whether the session ended.
func (r *Resolver) CheckCollision(player *entity.Entity, obstacles []*entity.Entity, now int64, out *Outcome) bool {
	if IsActive(player.Player.Ghost, now) {
		return false
	}
	for _, o := range obstacles {
		if !o.Alive || !Overlap(player, o) {
			continue
		}
		out.Terminal = true
		out.Reason = ReasonCollision
		out.emit(EventCollision)
		out.Effects = append(out.Effects,
			entity.NewExplosion(r.cfg.Effects, player.Center(), r.cfg.Effects.CrashParticles, now, r.rng))
		return true
	}
	return false
}

// CheckFuel ends the session when the tick started with an empty tank and
// nothing refilled it. No explosion is produced.
func (r *Resolver) CheckFuel(player *entity.Entity, out *Outcome) bool {
	p := player.Player
	if p.FuelAtTickStart > 0 || p.Fuel > 0 {
		return false
	}
	out.Terminal = true
	out.Reason = ReasonFuelOut
	out.emit(EventFuelOut)
	return true
}
