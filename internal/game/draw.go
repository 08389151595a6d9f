package game

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/survival-singularity/internal/config"
	"github.com/iburimskiy/survival-singularity/internal/geom"
	"github.com/iburimskiy/survival-singularity/internal/interaction"
	"github.com/iburimskiy/survival-singularity/internal/layout"
	"github.com/iburimskiy/survival-singularity/internal/render"
	"github.com/iburimskiy/survival-singularity/internal/visual"
)

const (
	// ebitenutil debug font cell
	charWidth  = 6
	charHeight = 16

	bandHeight = 4
	lineWidth  = 1.5
)

var (
	panelBorder = color.RGBA{R: 100, G: 110, B: 130, A: 255}
	panelFill   = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.drawScene(screen)
	g.toolbar.draw(screen)
	g.drawTooltip(screen)
	g.drawPanel(screen)
	g.drawStatus(screen)
}

// drawBackground paints a slowly drifting nebula gradient.
func (g *Game) drawBackground(screen *ebiten.Image) {
	t := g.clock.Elapsed()
	for y := 0; y < g.height; y += bandHeight {
		ratio := float64(y) / float64(g.height)
		hue := 240 + 35*math.Sin(t*0.05+ratio*math.Pi)
		v := 0.07 + 0.05*math.Sin(t*0.1+ratio*math.Pi)
		c := visual.HSV(hue, 0.75, v).RGBA(1)
		vector.DrawFilledRect(screen, 0, float32(y), float32(g.width), bandHeight, c, false)
	}
}

func (g *Game) drawScene(screen *ebiten.Image) {
	sing := g.store.Singularity()
	if x, y, depth, ok := g.cam.Project(geom.Vec3{}); ok {
		r := g.cam.ScreenRadius(layout.SingularityRadius*sing.Scale, depth)
		glow := visual.Hex(0x7fbfff).RGBA(0.12 + 0.25*sing.Flare)
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r*1.5), glow, true)
	}

	segs := render.SingularitySegments(g.cam, sing, g.segs[:0])
	for _, obj := range g.store.Objects() {
		segs = render.ObjectSegments(g.cam, obj, segs)
	}
	render.SortBackToFront(segs)
	for _, s := range segs {
		vector.StrokeLine(screen, s.X0, s.Y0, s.X1, s.Y1, lineWidth, s.Color.RGBA(s.Alpha), true)
	}
	g.segs = segs
}

// drawTooltip boxes the hovered event's title and probability next to the
// pointer, kept on screen.
func (g *Game) drawTooltip(screen *ebiten.Image) {
	rec, pos, ok := g.overlay.Tooltip()
	if !ok {
		return
	}
	lines := strings.Split(interaction.TooltipText(rec), "\n")
	w := longest(lines)*charWidth + 10
	h := len(lines)*charHeight + 6
	x := clampInt(int(pos.X), 0, g.width-w)
	y := clampInt(int(pos.Y), 0, g.height-h)

	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), panelFill, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, panelBorder, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x+5, y+3+i*charHeight)
	}
}

// drawPanel shows the selected event's details with a rarity bar.
func (g *Game) drawPanel(screen *ebiten.Image) {
	rec, ok := g.overlay.Panel()
	if !ok {
		g.panelBounds, g.closeBounds = image.Rectangle{}, image.Rectangle{}
		return
	}
	pad := config.PanelPadding
	lines := DetailLines(rec, (config.PanelWidth-2*pad)/charWidth)
	w := config.PanelWidth
	h := 2*pad + len(lines)*charHeight + config.RarityBarH + pad
	x := g.width - w - config.ButtonX
	y := config.ButtonY + config.ButtonHeight + 20
	g.panelBounds = image.Rect(x, y, x+w, y+h)
	g.closeBounds = image.Rect(x+w-pad-3*charWidth, y+pad-2, x+w-pad+2, y+pad+charHeight)

	border := panelBorder
	if obj, found := g.store.Get(rec.ID); found {
		border = obj.Spec.Color.RGBA(1)
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), panelFill, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 2, border, false)
	ebitenutil.DebugPrintAt(screen, "[x]", g.closeBounds.Min.X+2, y+pad)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x+pad, y+pad+i*charHeight)
	}

	// Rarity bar, hue shifting from blue toward magenta as events get rarer.
	rarity := visual.Rarity(rec.Probability)
	barX, barY := float32(x+pad), float32(y+h-pad-config.RarityBarH)
	barW := float32(w - 2*pad)
	vector.DrawFilledRect(screen, barX, barY, barW, config.RarityBarH, color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	if rarity > 0 {
		fill := visual.HSV(210+100*rarity, 0.8, 0.9).RGBA(0.85)
		vector.DrawFilledRect(screen, barX, barY, barW*float32(rarity), config.RarityBarH, fill, false)
	}
	vector.StrokeRect(screen, barX, barY, barW, config.RarityBarH, 1, panelBorder, false)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	var help string
	switch {
	case !g.coord.Ready():
		help = "Loading events..."
	case g.store.Len() == 0:
		help = "No events. Add or import some."
	default:
		help = "Click an event for details - Tab: next, R: reset view, right-drag: orbit, wheel: zoom, Esc/Q: quit"
	}
	if g.sound != nil {
		if loaded, paused := g.sound.HasSoundtrack(); loaded {
			if paused {
				help += " | Soundtrack paused (Space)"
			} else {
				help += " | Soundtrack playing (Space)"
			}
		}
	}
	ebitenutil.DebugPrintAt(screen, help, 12, g.height-2*charHeight-8)

	if msg, isErr := g.overlay.Status(); msg != "" {
		if isErr {
			vector.DrawFilledRect(screen, 8, float32(g.height-charHeight-6), float32(len(msg)*charWidth+8), charHeight+2, color.RGBA{R: 120, G: 20, B: 30, A: 200}, false)
		}
		ebitenutil.DebugPrintAt(screen, msg, 12, g.height-charHeight-6)
	}
}

func longest(lines []string) int {
	n := 0
	for _, l := range lines {
		n = max(n, len(l))
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

