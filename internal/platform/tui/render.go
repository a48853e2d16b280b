package tui

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/entity"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDarkGray:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	core.ColorGold:          lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// cellAspect is how much taller a terminal cell is than it is wide.
const cellAspect = 2.0

// ScreenRenderer draws world-pixel geometry onto a character Screen.
// The play field keeps its aspect ratio and is centered horizontally.
type ScreenRenderer struct {
	screen *core.Screen
	worldW float64
	worldH float64

	sx, sy  float64 // Cells per world pixel
	offsetX int
	field   core.Rect // Cells covered by the play field
}

// NewScreenRenderer creates a renderer for a worldW x worldH play field.
func NewScreenRenderer(s *core.Screen, worldW, worldH float64) *ScreenRenderer {
	r := &ScreenRenderer{screen: s, worldW: worldW, worldH: worldH}
	r.fit()
	return r
}

// Resize refits the play field after the screen changed size.
func (r *ScreenRenderer) Resize(width, height int) {
	r.screen.Resize(width, height)
	r.fit()
}

// Screen returns the target buffer.
func (r *ScreenRenderer) Screen() *core.Screen { return r.screen }

func (r *ScreenRenderer) fit() {
	if r.worldW <= 0 || r.worldH <= 0 {
		return
	}
	w, h := float64(r.screen.Width()), float64(r.screen.Height())
	r.sy = h / r.worldH
	r.sx = r.sy * cellAspect
	if r.worldW*r.sx > w {
		r.sx = w / r.worldW
		r.sy = r.sx / cellAspect
	}
	r.offsetX = int((w - r.worldW*r.sx) / 2)
	r.field = r.cellRect(core.NewBounds(0, 0, r.worldW, r.worldH))
}

// Cell converts a world position to a screen cell.
func (r *ScreenRenderer) Cell(x, y float64) (int, int) {
	return r.offsetX + int(math.Floor(x*r.sx)), int(math.Floor(y * r.sy))
}

// cellRect converts world bounds to a screen rect at least one cell in size.
func (r *ScreenRenderer) cellRect(b core.Bounds) core.Rect {
	x0, y0 := r.Cell(b.X, b.Y)
	x1 := r.offsetX + int(math.Ceil(b.Right()*r.sx))
	y1 := int(math.Ceil(b.Bottom() * r.sy))
	return core.NewRect(x0, y0, core.Max(x1-x0, 1), core.Max(y1-y0, 1))
}

// FillBackground clears the screen and shades the play field. When the
// field is narrower than the screen it gets a frame on both sides.
func (r *ScreenRenderer) FillBackground(c core.Color) {
	r.screen.Clear()
	r.screen.FillRect(r.field, '░', c)
	if r.field.X > 0 {
		f := r.field
		r.screen.DrawBox(core.NewRect(f.X-1, f.Y-1, f.W+2, f.H+2), core.ColorDarkGray)
	}
}

// DrawRect fills b. Surfaces drawn in gray are left blank, thin rects
// become lane markings and everything else is solid.
func (r *ScreenRenderer) DrawRect(b core.Bounds, c core.Color) {
	rect := r.cellRect(b)
	switch {
	case c == core.ColorGray:
		r.screen.FillRect(rect, ' ', c)
	case c == core.ColorDarkGray:
		r.screen.FillRect(rect, '░', c)
	case b.W*r.sx < 1 && b.H > b.W:
		r.screen.FillRect(rect, '│', c)
	default:
		r.screen.FillRect(rect, '█', c)
	}
}

// DrawEntity draws e with a glyph chosen by kind.
func (r *ScreenRenderer) DrawEntity(e *entity.Entity, c core.Color) {
	switch e.Kind {
	case entity.KindPlayer:
		r.screen.FillRect(r.cellRect(e.Bounds()), '█', c)
	case entity.KindObstacle:
		r.screen.FillRect(r.cellRect(e.Bounds()), '▓', c)
	case entity.KindFuelPickup:
		r.drawGlyph(e.Center(), 'F', c)
	case entity.KindGhostPickup:
		r.drawGlyph(e.Center(), 'G', c)
	case entity.KindWeaponPickup:
		r.drawGlyph(e.Center(), 'W', c)
	case entity.KindProjectile:
		r.drawGlyph(e.Center(), '|', c)
	case entity.KindEffect:
		r.drawEffect(e, c)
	}
}

// drawGlyph places g at p unless p falls outside the play field.
func (r *ScreenRenderer) drawGlyph(p core.Vec2, g rune, c core.Color) {
	x, y := r.Cell(p.X, p.Y)
	if !r.field.Contains(x, y) {
		return
	}
	r.screen.Set(x, y, g, c)
}

func (r *ScreenRenderer) drawEffect(e *entity.Entity, c core.Color) {
	fx := e.Effect
	switch fx.Kind {
	case entity.EffectExplosion:
		for _, p := range fx.Particles {
			switch a := p.Alpha(); {
			case a <= 0:
			case a > 0.5:
				r.drawGlyph(p.Pos, '*', c)
			default:
				r.drawGlyph(p.Pos, '·', c)
			}
		}
	case entity.EffectFloatingText:
		// Kept inside the field so edge-lane popups do not land on the frame
		x, y := r.Cell(e.Pos.X, e.Pos.Y)
		n := utf8.RuneCountInString(fx.Text)
		x = core.Clamp(x-n/2, r.field.X, r.field.Right()-n)
		r.screen.DrawText(x, y, fx.Text, c)
	}
}

// DrawText writes text with its first character at world position (x, y).
func (r *ScreenRenderer) DrawText(x, y float64, text string, c core.Color) {
	cx, cy := r.Cell(x, y)
	r.screen.DrawText(cx, cy, text, c)
}

// DrawTextCentered writes text centered on the screen at world height y.
func (r *ScreenRenderer) DrawTextCentered(y float64, text string, c core.Color) {
	_, cy := r.Cell(0, y)
	r.screen.DrawTextCentered(cy, text, c)
}

// Dim darkens the frame drawn so far.
func (r *ScreenRenderer) Dim(alpha float64) {
	r.screen.Dim(alpha)
}
