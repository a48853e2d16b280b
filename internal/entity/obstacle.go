package entity

import (
	"math"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
)

// Variant is the cosmetic model of an obstacle vehicle.
type Variant uint8

const (
	VariantCar Variant = iota
	VariantBus
	VariantAmbulance
)

// Variants lists every obstacle variant, in spawn-table order.
var Variants = []Variant{VariantCar, VariantBus, VariantAmbulance}

// String returns a human-readable name for the variant.
func (v Variant) String() string {
	switch v {
	case VariantCar:
		return "car"
	case VariantBus:
		return "bus"
	case VariantAmbulance:
		return "ambulance"
	default:
		return "unknown"
	}
}

// Pattern is the shape of an obstacle's sideways wobble.
type Pattern uint8

const (
	PatternNone Pattern = iota
	PatternSine
	PatternZigzag
)

// Oscillation is a lateral offset applied on top of the lane anchor.
type Oscillation struct {
	Pattern   Pattern
	Amplitude float64 // Pixels
	Phase     float64 // Radians
	Speed     float64 // Radians per second
}

// Offset returns the current lateral offset in pixels.
func (o Oscillation) Offset() float64 {
	switch o.Pattern {
	case PatternSine:
		return o.Amplitude * math.Sin(o.Phase)
	case PatternZigzag:
		// Triangle wave with the same period as sin, zero at phase 0.
		t := math.Mod(o.Phase/(2*math.Pi), 1)
		if t < 0 {
			t++
		}
		var v float64
		switch {
		case t < 0.25:
			v = 4 * t
		case t < 0.75:
			v = 2 - 4*t
		default:
			v = 4*t - 4
		}
		return o.Amplitude * v
	default:
		return 0
	}
}

// LaneChangeState is the progress of an obstacle's single lane change.
type LaneChangeState uint8

const (
	LaneIdle LaneChangeState = iota
	LaneChanging
	LaneChanged
)

// LaneChange describes the lane change an obstacle may perform once.
type LaneChange struct {
	State     LaneChangeState
	Eligible  bool
	TriggerY  float64 // Change starts once the obstacle reaches this y
	Direction int     // Preferred lane step, -1 or +1
	From, To  int     // Lane indices
	StartTime int64   // ms
	Duration  int64   // ms
}

// ObstacleData is the obstacle-specific payload.
type ObstacleData struct {
	Lane    int // Index into the configured lanes
	Variant Variant
	BaseX   float64 // Lane anchor before oscillation
	Speed   float64 // Own descent speed in pixels per second
	Osc     Oscillation
	Change  LaneChange
}

// Occupies reports whether the obstacle blocks lane i.
// A changing obstacle blocks both its source and its target lane.
func (d *ObstacleData) Occupies(i int) bool {
	if d.Change.State == LaneChanging {
		return d.Change.From == i || d.Change.To == i
	}
	return d.Lane == i
}

// NewObstacle creates an obstacle just above the top edge of lane.
func NewObstacle(cfg config.Config, lane int, speed float64, variant Variant) *Entity {
	x := cfg.Lanes[lane]
	return &Entity{
		Kind:  KindObstacle,
		Pos:   core.Vec2{X: x, Y: -cfg.Obstacles.Height},
		W:     cfg.Obstacles.Width,
		H:     cfg.Obstacles.Height,
		Vel:   core.Vec2{Y: speed},
		Inset: cfg.Obstacles.HitboxInset,
		Alive: true,
		Obstacle: &ObstacleData{
			Lane:    lane,
			Variant: variant,
			BaseX:   x,
			Speed:   speed,
		},
	}
}

// ObstacleEnv is what an obstacle needs to know about its surroundings.
type ObstacleEnv struct {
	Now      int64   // ms
	Secs     float64 // Tick length
	Lanes    []float64
	Player   *Entity
	Siblings []*Entity // All live obstacles, including the one being advanced

	MinGap       float64
	SafeDistance float64
	LateralRatio float64
}

// AdvanceObstacle moves an obstacle one tick: descent with gap keeping,
// the optional lane change, and oscillation around the lane anchor.
func AdvanceObstacle(e *Entity, env ObstacleEnv) {
	if e.Frozen || !e.Alive {
		return
	}
	d := e.Obstacle

	// Slow down to the speed of a vehicle too close ahead in the same lane
	speed := d.Speed
	if ahead := nearestAhead(e, env.Siblings); ahead != nil {
		gap := ahead.Pos.Y - (e.Pos.Y + e.H)
		if gap < env.MinGap && ahead.Vel.Y < speed {
			speed = ahead.Vel.Y
		}
	}
	e.Vel = core.Vec2{Y: speed}
	e.Pos.Y += speed * env.Secs

	if d.Change.State == LaneIdle && d.Change.Eligible && e.Pos.Y >= d.Change.TriggerY {
		tryStartLaneChange(e, env, speed)
	}

	switch d.Change.State {
	case LaneChanging:
		t := 1.0
		if d.Change.Duration > 0 {
			t = float64(env.Now-d.Change.StartTime) / float64(d.Change.Duration)
		}
		d.BaseX = core.Lerp(env.Lanes[d.Change.From], env.Lanes[d.Change.To], t)
		if t >= 1 {
			d.Lane = d.Change.To
			d.BaseX = env.Lanes[d.Lane]
			d.Change.State = LaneChanged
			d.Osc.Phase = 0
		}
		e.Pos.X = d.BaseX
	default:
		if d.Osc.Pattern != PatternNone {
			d.Osc.Phase += d.Osc.Speed * env.Secs
		}
		e.Pos.X = d.BaseX + d.Osc.Offset()
	}
}

// nearestAhead returns the closest obstacle below e that shares a lane with it.
func nearestAhead(e *Entity, siblings []*Entity) *Entity {
	var best *Entity
	for _, o := range siblings {
		if o == e || !o.Alive || o.Pos.Y <= e.Pos.Y {
			continue
		}
		if !sharesLane(e.Obstacle, o.Obstacle) {
			continue
		}
		if best == nil || o.Pos.Y < best.Pos.Y {
			best = o
		}
	}
	return best
}

func sharesLane(a, b *ObstacleData) bool {
	if a.Change.State == LaneChanging {
		return b.Occupies(a.Change.From) || b.Occupies(a.Change.To)
	}
	return b.Occupies(a.Lane)
}

// tryStartLaneChange begins the change if the player is far enough away and
// an adjacent lane is clear. The preferred direction is tried first.
func tryStartLaneChange(e *Entity, env ObstacleEnv, speed float64) {
	d := e.Obstacle
	if env.Player != nil && math.Abs(e.Pos.Y-env.Player.Pos.Y) < env.SafeDistance {
		return
	}

	dir := d.Change.Direction
	if dir == 0 {
		dir = 1
	}
	for _, step := range []int{dir, -dir} {
		target := d.Lane + step
		if target < 0 || target >= len(env.Lanes) {
			continue
		}
		if !laneClear(e, target, env) {
			continue
		}

		lateral := speed * env.LateralRatio
		dx := math.Abs(env.Lanes[target] - env.Lanes[d.Lane])
		var dur int64
		if lateral > 0 {
			dur = int64(math.Round(dx / lateral * 1000))
		}
		d.Change.State = LaneChanging
		d.Change.From = d.Lane
		d.Change.To = target
		d.Change.StartTime = env.Now
		d.Change.Duration = dur
		return
	}
}

// laneClear reports whether no other obstacle in lane sits within MinGap of e vertically.
func laneClear(e *Entity, lane int, env ObstacleEnv) bool {
	for _, o := range env.Siblings {
		if o == e || !o.Alive || !o.Obstacle.Occupies(lane) {
			continue
		}
		if o.Pos.Y < e.Pos.Y+e.H+env.MinGap && o.Pos.Y+o.H > e.Pos.Y-env.MinGap {
			return false
		}
	}
	return true
}
