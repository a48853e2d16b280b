package world

import (
	"fmt"

	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/entity"
	"github.com/vovakirdan/lane-racer/internal/resolve"
)

// Renderer is the drawing surface a frame is emitted to.
// Coordinates are world pixels; implementations scale as needed.
type Renderer interface {
	FillBackground(c core.Color)
	DrawRect(b core.Bounds, c core.Color)
	DrawEntity(e *entity.Entity, c core.Color)
	DrawText(x, y float64, text string, c core.Color)
	DrawTextCentered(y float64, text string, c core.Color)
	// Dim darkens everything drawn so far by alpha in [0, 1].
	Dim(alpha float64)
}

// Fuel gauge thresholds as fractions of the tank.
const (
	fuelGreenAbove  = 0.6
	fuelYellowAbove = 0.3
)

// FuelColor returns the gauge color for a fuel ratio.
func FuelColor(ratio float64) core.Color {
	switch {
	case ratio > fuelGreenAbove:
		return core.ColorGreen
	case ratio > fuelYellowAbove:
		return core.ColorYellow
	default:
		return core.ColorRed
	}
}

// VariantColor returns the body color of an obstacle variant.
func VariantColor(v entity.Variant) core.Color {
	switch v {
	case entity.VariantBus:
		return core.ColorOrange
	case entity.VariantAmbulance:
		return core.ColorBrightWhite
	default:
		return core.ColorBrightRed
	}
}

// Draw emits the road, every entity and the HUD.
func (w *World) Draw(r Renderer) {
	cfg := w.cfg
	r.FillBackground(core.ColorDarkGray)

	// Road surface and shoulders
	road := core.NewBounds(cfg.Player.SideMargin, 0, cfg.Screen.Width-2*cfg.Player.SideMargin, cfg.Screen.Height)
	r.DrawRect(road, core.ColorGray)

	// Dashed separators between lanes, scrolling with the track
	period := cfg.Track.DashLength + cfg.Track.DashGap
	for i := 1; i < len(cfg.Lanes); i++ {
		x := (cfg.Lanes[i-1]+cfg.Obstacles.Width+cfg.Lanes[i])/2 - 1
		if period <= 0 {
			continue
		}
		for y := w.track.Offset - period; y < cfg.Screen.Height; y += period {
			r.DrawRect(core.NewBounds(x, y, 2, cfg.Track.DashLength), core.ColorWhite)
		}
	}

	for _, pk := range w.Pickups {
		r.DrawEntity(pk, pickupColor(pk.Kind))
	}
	for _, o := range w.Obstacles {
		r.DrawEntity(o, VariantColor(o.Obstacle.Variant))
	}
	for _, pr := range w.Projectiles {
		r.DrawEntity(pr, core.ColorBrightYellow)
	}

	p := w.Player.Player
	if resolve.Visible(p.Ghost, w.now, cfg.Session.BlinkIntervalMS) {
		c := core.ColorBrightCyan
		if resolve.IsActive(p.Ghost, w.now) {
			c = core.ColorGray
		}
		r.DrawEntity(w.Player, c)
	}

	for _, e := range w.Effects {
		r.DrawEntity(e, e.Effect.Color)
	}

	w.drawHUD(r)
}

// drawHUD draws the score, the fuel gauge and active power-up timers.
func (w *World) drawHUD(r Renderer) {
	cfg := w.cfg
	p := w.Player.Player

	r.DrawText(8, 8, fmt.Sprintf("SCORE %d", w.score), core.ColorBrightWhite)

	ratio := p.FuelRatio()
	barW := cfg.Screen.Width / 3
	bar := core.NewBounds(cfg.Screen.Width-barW-8, 8, barW, 12)
	r.DrawRect(bar, core.ColorDarkGray)
	fill := bar
	fill.W = bar.W * core.ClampF(ratio, 0, 1)
	if fill.W > 0 {
		r.DrawRect(fill, FuelColor(ratio))
	}
	r.DrawText(bar.X, bar.Bottom()+4, fmt.Sprintf("FUEL %d%%", int(ratio*100+0.5)), FuelColor(ratio))

	y := 48.0
	for _, pu := range []entity.PowerUp{entity.PowerUpGhost, entity.PowerUpWeapon} {
		t := *p.Timer(pu)
		if !resolve.IsActive(t, w.now) {
			continue
		}
		if resolve.Visible(t, w.now, cfg.Session.BlinkIntervalMS) {
			secs := float64(t.Remaining(w.now)) / 1000
			r.DrawText(8, y, fmt.Sprintf("%s %.1fs", powerUpLabel(pu), secs), powerUpColor(pu))
		}
		y += 20
	}
}

func pickupColor(k entity.Kind) core.Color {
	switch k {
	case entity.KindFuelPickup:
		return core.ColorBrightGreen
	case entity.KindGhostPickup:
		return core.ColorBrightCyan
	case entity.KindWeaponPickup:
		return core.ColorBrightMagenta
	default:
		return core.ColorWhite
	}
}

func powerUpColor(pu entity.PowerUp) core.Color {
	if pu == entity.PowerUpWeapon {
		return core.ColorBrightMagenta
	}
	return core.ColorBrightCyan
}

func powerUpLabel(pu entity.PowerUp) string {
	if pu == entity.PowerUpWeapon {
		return "WEAPON"
	}
	return "GHOST"
}
