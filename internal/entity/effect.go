package entity

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
)

// EffectKind distinguishes transient visual effects.
type EffectKind uint8

const (
	EffectExplosion EffectKind = iota
	EffectFloatingText
)

// Particle is one fragment of an explosion.
type Particle struct {
	Pos     core.Vec2
	Vel     core.Vec2
	Life    int64 // Remaining ms
	MaxLife int64
}

// Alpha returns the particle opacity in [0, 1].
func (p Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return core.ClampF(float64(p.Life)/float64(p.MaxLife), 0, 1)
}

// EffectData is the payload of a transient effect.
// Effects never collide and keep animating after the session freezes.
type EffectData struct {
	Kind      EffectKind
	Born      int64 // ms
	Duration  int64 // ms, floating text only
	Particles []Particle
	Text      string
	Color     core.Color
	Rise      float64 // Pixels the text drifts up over its lifetime
	Origin    core.Vec2
}

// Alpha returns the opacity of floating text in [0, 1].
func (d *EffectData) Alpha(now int64) float64 {
	if d.Duration <= 0 {
		return 0
	}
	return 1 - core.ClampF(float64(now-d.Born)/float64(d.Duration), 0, 1)
}

// NewExplosion creates a burst of count particles around center.
func NewExplosion(cfg config.EffectsConfig, center core.Vec2, count int, now int64, rng *rand.Rand) *Entity {
	parts := make([]Particle, count)
	for i := range parts {
		angle := rng.Float64() * 2 * math.Pi
		speed := cfg.ParticleSpeedMin + rng.Float64()*(cfg.ParticleSpeedMax-cfg.ParticleSpeedMin)
		life := cfg.ParticleLifeMinMS
		if span := cfg.ParticleLifeMaxMS - cfg.ParticleLifeMinMS; span > 0 {
			life += rng.Int63n(span + 1)
		}
		parts[i] = Particle{
			Pos:     center,
			Vel:     core.Vec2{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
			Life:    life,
			MaxLife: life,
		}
	}
	return &Entity{
		Kind:  KindEffect,
		Pos:   center,
		Alive: true,
		Effect: &EffectData{
			Kind:      EffectExplosion,
			Born:      now,
			Particles: parts,
			Color:     core.ColorYellow,
			Origin:    center,
		},
	}
}

// NewFloatingText creates a short-lived label rising from center.
func NewFloatingText(cfg config.EffectsConfig, center core.Vec2, text string, c core.Color, now int64) *Entity {
	return &Entity{
		Kind:  KindEffect,
		Pos:   center,
		Alive: true,
		Effect: &EffectData{
			Kind:     EffectFloatingText,
			Born:     now,
			Duration: cfg.FloatingTextMS,
			Text:     text,
			Color:    c,
			Rise:     cfg.FloatingTextRise,
			Origin:   center,
		},
	}
}

// AdvanceEffect animates an effect and kills it once it has faded out.
// Effects ignore the Frozen flag.
func AdvanceEffect(e *Entity, now int64, dtMS int64) {
	if !e.Alive {
		return
	}
	d := e.Effect
	secs := float64(dtMS) / 1000

	switch d.Kind {
	case EffectExplosion:
		live := d.Particles[:0]
		for _, p := range d.Particles {
			p.Life -= dtMS
			if p.Life <= 0 {
				continue
			}
			p.Pos = p.Pos.Add(p.Vel.Scale(secs))
			live = append(live, p)
		}
		d.Particles = live
		if len(live) == 0 {
			e.Alive = false
		}
	case EffectFloatingText:
		elapsed := now - d.Born
		if elapsed >= d.Duration {
			e.Alive = false
			return
		}
		t := float64(elapsed) / float64(d.Duration)
		e.Pos = core.Vec2{X: d.Origin.X, Y: d.Origin.Y - d.Rise*t}
	}
}
