// Package spawn decides when and where obstacles and pickups enter the road.
//
// The Controller owns the spawn timers and a seeded RNG. It never moves
// entities; it only inspects the live ones to keep lanes passable.
package spawn

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/entity"
)

// pickupWindow is the spawn state of one pickup kind.
type pickupWindow struct {
	lastSpawn int64
	lastRoll  int64
	last      *entity.Entity
}

// Controller paces obstacle and pickup spawns.
type Controller struct {
	cfg        config.Config
	rng        *rand.Rand
	difficulty *config.DifficultyManager

	lastSpawn     int64
	spawnDelay    int64
	lastSpawned   *entity.Entity
	laneLastSpawn []int64

	spawned  int
	eligible int

	fuel, ghost, weapon pickupWindow

	distance float64
	elapsed  int64
}

// NewController creates a controller whose clock starts at start.
func NewController(cfg config.Config, rng *rand.Rand, start int64) *Controller {
	c := &Controller{
		cfg:           cfg,
		rng:           rng,
		difficulty:    config.NewDifficultyManager(cfg.Difficulty),
		lastSpawn:     start,
		spawnDelay:    cfg.Obstacles.InitialDelayMS,
		laneLastSpawn: make([]int64, len(cfg.Lanes)),
	}
	for i := range c.laneLastSpawn {
		c.laneLastSpawn[i] = start - cfg.Obstacles.LaneCooldownMS - 1
	}
	for _, w := range []*pickupWindow{&c.fuel, &c.ghost, &c.weapon} {
		w.lastSpawn = start
		w.lastRoll = start
	}
	return c
}

// SetProgress feeds the run progress used for difficulty scaling.
func (c *Controller) SetProgress(distance float64, elapsedMS int64) {
	c.distance = distance
	c.elapsed = elapsedMS
}

// Level returns the current difficulty level.
func (c *Controller) Level() float64 {
	return c.difficulty.Level(c.distance, c.elapsed)
}

// TrySpawnObstacle returns a new obstacle, or nil when any of these holds:
// the spawn delay has not elapsed, the previous obstacle has not cleared the
// spawn area, or no lane is free of both cooldown and nearby traffic.
// A skipped spawn leaves the timers untouched so the next tick retries.
func (c *Controller) TrySpawnObstacle(now int64, existing []*entity.Entity) *entity.Entity {
	if now-c.lastSpawn <= c.spawnDelay {
		return nil
	}
	if c.lastSpawned != nil && c.lastSpawned.Alive && c.lastSpawned.Pos.Y <= c.cfg.Obstacles.SpawnClearanceY {
		return nil
	}

	occupied := OccupiedLanes(len(c.cfg.Lanes), c.cfg.Obstacles.DangerBand, existing)
	free := make([]int, 0, len(c.cfg.Lanes))
	for i := range c.cfg.Lanes {
		if occupied[i] || now-c.laneLastSpawn[i] <= c.cfg.Obstacles.LaneCooldownMS {
			continue
		}
		free = append(free, i)
	}
	if len(free) == 0 {
		return nil
	}

	lane := free[c.rng.Intn(len(free))]
	o := c.newObstacle(lane)

	c.lastSpawn = now
	c.lastSpawned = o
	c.laneLastSpawn[lane] = now
	c.spawnDelay = c.nextDelay()
	return o
}

// newObstacle rolls speed, variant, oscillation and lane-change eligibility.
func (c *Controller) newObstacle(lane int) *entity.Entity {
	oc := c.cfg.Obstacles
	base := c.uniform(oc.SpeedMin, oc.SpeedMax)
	speed := c.difficulty.Speed(base, c.distance, c.elapsed)
	variant := entity.Variants[c.rng.Intn(len(entity.Variants))]
	o := entity.NewObstacle(c.cfg, lane, speed, variant)
	d := o.Obstacle

	if c.rng.Float64() < oc.Oscillation.Chance {
		d.Osc = entity.Oscillation{
			Pattern:   entity.PatternSine,
			Amplitude: c.uniform(oc.Oscillation.AmplitudeMin, oc.Oscillation.AmplitudeMax),
			Speed:     c.uniform(oc.Oscillation.SpeedMin, oc.Oscillation.SpeedMax),
			Phase:     c.rng.Float64() * 2 * math.Pi,
		}
		if c.rng.Intn(2) == 1 {
			d.Osc.Pattern = entity.PatternZigzag
		}
		o.Pos.X = d.BaseX + d.Osc.Offset()
	}

	// Eligibility is both rolled and capped so the eligible share never
	// exceeds the configured chance.
	c.spawned++
	chance := math.Min(oc.LaneChange.Chance, config.MaxLaneChangeChance)
	roll := c.rng.Float64() < chance
	if roll && len(c.cfg.Lanes) > 1 && float64(c.eligible+1) <= chance*float64(c.spawned) {
		c.eligible++
		dir := 1
		if c.rng.Intn(2) == 0 {
			dir = -1
		}
		d.Change = entity.LaneChange{
			Eligible:  true,
			TriggerY:  c.uniform(oc.LaneChange.TriggerMinY, oc.LaneChange.TriggerMaxY),
			Direction: dir,
		}
	}
	return o
}

// nextDelay rolls the delay before the next obstacle.
func (c *Controller) nextDelay() int64 {
	oc := c.cfg.Obstacles
	base := oc.SpawnDelayMinMS
	if span := oc.SpawnDelayMaxMS - oc.SpawnDelayMinMS; span > 0 {
		base += c.rng.Int63n(span + 1)
	}
	return c.difficulty.SpawnDelay(base, c.distance, c.elapsed)
}

// eligibleShare returns the fraction of spawned obstacles allowed to change lanes.
func (c *Controller) eligibleShare() float64 {
	if c.spawned == 0 {
		return 0
	}
	return float64(c.eligible) / float64(c.spawned)
}

// TrySpawnFuel returns a new fuel can or nil.
// The cooldown shortens while the tank is below the low-fuel threshold.
func (c *Controller) TrySpawnFuel(now int64, fuelRatio float64, obstacles, pickups []*entity.Entity) *entity.Entity {
	fc := c.cfg.Pickups.Fuel
	cooldown := fc.CooldownMS
	if fuelRatio < fc.LowFuelThreshold {
		cooldown = fc.LowFuelCooldownMS
	}
	return c.trySpawnPickup(&c.fuel, entity.KindFuelPickup, fc.PickupSpawn, cooldown, now, obstacles, pickups)
}

// TrySpawnGhost returns a new ghost pickup or nil.
func (c *Controller) TrySpawnGhost(now int64, obstacles, pickups []*entity.Entity) *entity.Entity {
	gc := c.cfg.Pickups.Ghost.PickupSpawn
	return c.trySpawnPickup(&c.ghost, entity.KindGhostPickup, gc, gc.CooldownMS, now, obstacles, pickups)
}

// TrySpawnWeapon returns a new weapon pickup or nil.
// At most one weapon pickup is on the road at a time.
func (c *Controller) TrySpawnWeapon(now int64, obstacles, pickups []*entity.Entity) *entity.Entity {
	for _, p := range pickups {
		if p.Alive && p.Kind == entity.KindWeaponPickup {
			c.weapon.lastRoll = now
			return nil
		}
	}
	wc := c.cfg.Pickups.Weapon.PickupSpawn
	return c.trySpawnPickup(&c.weapon, entity.KindWeaponPickup, wc, wc.CooldownMS, now, obstacles, pickups)
}

// trySpawnPickup applies the shared pickup gates: cooldown, a Poisson roll
// over the time since the last roll, clearance of the previous pickup of the
// same kind, and a lane free of traffic near the top of the road.
func (c *Controller) trySpawnPickup(w *pickupWindow, kind entity.Kind, sc config.PickupSpawn, cooldown, now int64, obstacles, pickups []*entity.Entity) *entity.Entity {
	elapsed := now - w.lastRoll
	w.lastRoll = now

	if now-w.lastSpawn <= cooldown {
		return nil
	}
	if w.last != nil && w.last.Alive && w.last.Pos.Y <= sc.ClearanceY {
		return nil
	}
	if elapsed <= 0 || c.rng.Float64() >= SpawnProbability(sc.Rate, elapsed) {
		return nil
	}

	band := c.cfg.Pickups.LaneBand
	occupied := OccupiedLanes(len(c.cfg.Lanes), band, obstacles)
	for _, p := range pickups {
		if p.Alive && p.Pos.Y < band && p.Pickup.Lane < len(occupied) {
			occupied[p.Pickup.Lane] = true
		}
	}
	free := make([]int, 0, len(occupied))
	for i, busy := range occupied {
		if !busy {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return nil
	}

	p := entity.NewPickup(c.cfg, kind, free[c.rng.Intn(len(free))])
	w.lastSpawn = now
	w.last = p
	return p
}

// SpawnProbability converts a rate per second into the chance of at least
// one spawn during elapsedMS.
func SpawnProbability(rate float64, elapsedMS int64) float64 {
	if rate <= 0 || elapsedMS <= 0 {
		return 0
	}
	return 1 - math.Exp(-rate*float64(elapsedMS)/1000)
}

// OccupiedLanes marks every lane holding a live obstacle above y = band.
// Obstacles mid lane change occupy both lanes.
func OccupiedLanes(lanes int, band float64, obstacles []*entity.Entity) []bool {
	occupied := make([]bool, lanes)
	for _, o := range obstacles {
		if !o.Alive || o.Obstacle == nil || o.Pos.Y >= band {
			continue
		}
		for i := range occupied {
			if o.Obstacle.Occupies(i) {
				occupied[i] = true
			}
		}
	}
	return occupied
}

func (c *Controller) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + c.rng.Float64()*(hi-lo)
}
