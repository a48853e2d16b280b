// Package world owns one racing session: the player, every live entity,
// the scrolling track and the score. Tick advances all of it by one step
// in a fixed order.
package world

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/entity"
	"github.com/vovakirdan/lane-racer/internal/resolve"
	"github.com/vovakirdan/lane-racer/internal/spawn"
)

// Status is whether the world is still simulating.
type Status uint8

const (
	StatusRunning Status = iota
	StatusFrozen
)

// String returns a human-readable status.
func (s Status) String() string {
	if s == StatusFrozen {
		return "frozen"
	}
	return "running"
}

// TickResult summarizes one call to Tick.
type TickResult struct {
	Score    int
	Delta    int // Score gained this tick
	Terminal bool
	Reason   resolve.Reason
	Events   []string
}

// Track is the scrolling road state.
type Track struct {
	Offset   float64 // Dash phase in pixels
	Distance float64 // Total pixels scrolled
}

// World is a single session's simulation.
type World struct {
	cfg      config.Config
	rng      *rand.Rand
	spawner  *spawn.Controller
	resolver *resolve.Resolver

	status     Status
	reason     resolve.Reason
	start      int64
	now        int64
	terminalAt int64
	ticks      uint64

	Player      *entity.Entity
	Obstacles   []*entity.Entity
	Pickups     []*entity.Entity
	Projectiles []*entity.Entity
	Effects     []*entity.Entity

	track Track
	score int
}

// New creates a world whose clock starts at now.
func New(cfg config.Config, seed int64, now int64) *World {
	rng := rand.New(rand.NewSource(seed))
	return &World{
		cfg:        cfg,
		rng:        rng,
		spawner:    spawn.NewController(cfg, rng, now),
		resolver:   resolve.New(cfg, rng),
		start:      now,
		now:        now,
		terminalAt: -1,
		Player:     entity.NewPlayer(cfg),
		Obstacles:  make([]*entity.Entity, 0, 8),
		Pickups:    make([]*entity.Entity, 0, 4),
	}
}

// Config returns the configuration the world was built from.
func (w *World) Config() config.Config { return w.cfg }

// Status returns whether the world is running or frozen.
func (w *World) Status() Status { return w.status }

// Reason returns why the world froze, or ReasonNone.
func (w *World) Reason() resolve.Reason { return w.reason }

// TerminalAt returns the clock time of the terminal tick, or -1.
func (w *World) TerminalAt() int64 { return w.terminalAt }

// Score returns the current score.
func (w *World) Score() int { return w.score }

// Track returns the road scroll state.
func (w *World) Track() Track { return w.track }

// Now returns the clock time of the last tick.
func (w *World) Now() int64 { return w.now }

// Level returns the current difficulty level.
func (w *World) Level() float64 { return w.spawner.Level() }

// Tick advances the world to now by dt.
//
// Order: effects/freeze short-circuit, track and player, spawns, obstacles,
// pickups, projectiles, terminal checks, score.
func (w *World) Tick(now int64, dt time.Duration, in core.Input) TickResult {
	secs := dt.Seconds()
	dtMS := dt.Milliseconds()

	// 1. A frozen world only animates transient effects
	if w.status == StatusFrozen {
		w.advanceEffects(now, dtMS)
		return TickResult{Score: w.score, Reason: w.reason}
	}
	w.now = now
	w.ticks++
	var out resolve.Outcome
	p := w.Player.Player

	// 2. Track, effect timers, player movement, fuel, firing
	scrolled := w.cfg.Track.ScrollSpeed * secs
	w.track.Distance += scrolled
	if period := w.cfg.Track.DashLength + w.cfg.Track.DashGap; period > 0 {
		w.track.Offset = math.Mod(w.track.Offset+scrolled, period)
	}
	p.Distance = w.track.Distance
	resolve.UpdateEffects(w.Player, now)
	p.FuelAtTickStart = p.Fuel
	entity.SteerPlayer(w.Player, in, secs)
	if in.Holding(core.IntentFire) && w.resolver.TryFire(w.Player, now, &out) {
		w.Projectiles = append(w.Projectiles, entity.NewProjectile(w.cfg, w.Player))
	}

	// 3. Spawning
	w.spawner.SetProgress(w.track.Distance, now-w.start)
	if o := w.spawner.TrySpawnObstacle(now, w.Obstacles); o != nil {
		w.Obstacles = append(w.Obstacles, o)
	}
	if pk := w.spawner.TrySpawnFuel(now, p.FuelRatio(), w.Obstacles, w.Pickups); pk != nil {
		w.Pickups = append(w.Pickups, pk)
	}
	if pk := w.spawner.TrySpawnGhost(now, w.Obstacles, w.Pickups); pk != nil {
		w.Pickups = append(w.Pickups, pk)
	}
	if pk := w.spawner.TrySpawnWeapon(now, w.Obstacles, w.Pickups); pk != nil {
		w.Pickups = append(w.Pickups, pk)
	}

	// 4. Obstacles
	env := entity.ObstacleEnv{
		Now:          now,
		Secs:         secs,
		Lanes:        w.cfg.Lanes,
		Player:       w.Player,
		Siblings:     w.Obstacles,
		MinGap:       w.cfg.Obstacles.MinGap,
		SafeDistance: w.cfg.Obstacles.LaneChange.SafeDistance,
		LateralRatio: w.cfg.Obstacles.LaneChange.LateralRatio,
	}
	for _, o := range w.Obstacles {
		entity.AdvanceObstacle(o, env)
	}
	w.Obstacles = w.sweep(w.Obstacles)

	// 5. Pickups
	for _, pk := range w.Pickups {
		entity.AdvancePickup(pk, secs)
	}
	w.resolver.ResolvePickups(w.Player, w.Pickups, now, &out)
	w.Pickups = w.sweep(w.Pickups)

	// 6. Projectiles
	for _, pr := range w.Projectiles {
		entity.AdvanceProjectile(pr, secs)
	}
	w.resolver.ResolveProjectiles(w.Projectiles, w.Obstacles, now, &out)
	w.Projectiles = w.sweep(w.Projectiles)
	w.Obstacles = w.sweep(w.Obstacles)

	// 7. Terminal checks
	if !w.resolver.CheckCollision(w.Player, w.Obstacles, now, &out) {
		w.resolver.CheckFuel(w.Player, &out)
	}
	w.advanceEffects(now, dtMS)
	w.Effects = append(w.Effects, out.Effects...)
	if out.Terminal {
		w.freeze(now, out.Reason)
	}

	// 8. Score
	p.Bonus += out.Bonus
	prev := w.score
	if score := int(w.track.Distance/w.cfg.Track.DistancePerPoint) + p.Bonus; score > w.score {
		w.score = score
	}

	return TickResult{
		Score:    w.score,
		Delta:    w.score - prev,
		Terminal: out.Terminal,
		Reason:   out.Reason,
		Events:   out.Events,
	}
}

// freeze stops every simulation entity. Transient effects keep animating.
func (w *World) freeze(now int64, reason resolve.Reason) {
	w.status = StatusFrozen
	w.reason = reason
	w.terminalAt = now
	w.Player.Freeze()
	for _, group := range [][]*entity.Entity{w.Obstacles, w.Pickups, w.Projectiles} {
		for _, e := range group {
			e.Freeze()
		}
	}
}

// advanceEffects animates effects and drops the expired ones.
func (w *World) advanceEffects(now, dtMS int64) {
	live := w.Effects[:0]
	for _, e := range w.Effects {
		entity.AdvanceEffect(e, now, dtMS)
		if e.Alive {
			live = append(live, e)
		}
	}
	w.Effects = live
}

// sweep removes dead entities and kills those that left the screen.
func (w *World) sweep(list []*entity.Entity) []*entity.Entity {
	live := list[:0]
	for _, e := range list {
		if e.Alive && e.OffScreen(w.cfg.Screen.Height) {
			e.Kill()
		}
		if e.Alive {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(list); i++ {
		list[i] = nil
	}
	return live
}
