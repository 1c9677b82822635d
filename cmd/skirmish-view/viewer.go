package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/sim"
	"github.com/udisondev/skirmish/internal/unit"
)

var (
	colBackground = color.RGBA{R: 18, G: 20, B: 18, A: 255}
	colField      = color.RGBA{R: 34, G: 40, B: 32, A: 255}
	colLowWall    = color.RGBA{R: 110, G: 100, B: 70, A: 255}
	colHighWall   = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	colFriend     = color.RGBA{R: 80, G: 160, B: 255, A: 255}
	colEnemy      = color.RGBA{R: 230, G: 80, B: 70, A: 255}
	colNeutral    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colDying      = color.RGBA{R: 90, G: 90, B: 90, A: 160}
	colHPBack     = color.RGBA{R: 40, G: 0, B: 0, A: 200}
	colHPFront    = color.RGBA{R: 90, G: 220, B: 90, A: 255}
	colImpact     = color.RGBA{R: 255, G: 220, B: 120, A: 255}
)

var speeds = []float64{0.25, 0.5, 1, 2, 4}

// viewer implements ebiten.Game over a live world.
type viewer struct {
	world    *sim.World
	scenario config.Scenario
	cam      *camera
	screen   *geo.Viewport
	dt       float64

	paused   bool
	speedIdx int
}

func newViewer(w *sim.World, sc config.Scenario, cam *camera, screen *geo.Viewport, dt float64) *viewer {
	return &viewer{world: w, scenario: sc, cam: cam, screen: screen, dt: dt, speedIdx: 2}
}

func (v *viewer) Update() error {
	v.handleInput()
	v.screen.MoveTo(v.cam.center(), v.cam.worldWidth(), v.cam.worldHeight())

	if !v.paused {
		v.world.Advance(v.dt * speeds[v.speedIdx])
	}
	return nil
}

func (v *viewer) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) && v.speedIdx < len(speeds)-1 {
		v.speedIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) && v.speedIdx > 0 {
		v.speedIdx--
	}

	const panSpeed = 8.0
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.cam.pan(0, -panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.cam.pan(0, panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.cam.pan(-panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.cam.pan(panSpeed, 0)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		v.cam.zoomBy(1 + 0.12*wy)
	}
}

func (v *viewer) Draw(dst *ebiten.Image) {
	dst.Fill(colBackground)
	v.drawRect(dst, v.scenario.Bounds, colField)

	for _, w := range v.scenario.Walls {
		c := colLowWall
		if w.Layer == "high" {
			c = colHighWall
		}
		v.drawRect(dst, w.Rect, c)
	}
	if t := v.scenario.Tiles; t != nil {
		for y, row := range t.Rows {
			for x, ch := range []byte(row) {
				var c color.RGBA
				switch ch {
				case '#':
					c = colHighWall
				case '=':
					c = colLowWall
				default:
					continue
				}
				minX := t.Origin.X + float64(x)*t.Size
				minY := t.Origin.Y + float64(y)*t.Size
				v.drawRect(dst, config.Rect{MinX: minX, MinY: minY, MaxX: minX + t.Size, MaxY: minY + t.Size}, c)
			}
		}
	}

	scale := float32(v.cam.scale())
	for _, wl := range v.world.Wells() {
		x, y := v.cam.toScreen(wl.Position)
		vector.StrokeCircle(dst, x, y, float32(wl.Radius)*scale, 2, factionColor(wl.Faction), true)
	}

	for _, a := range v.world.Agents() {
		v.drawAgent(dst, a, scale)
	}

	for _, p := range v.world.Projectiles() {
		pv := p.View()
		x, y := v.cam.toScreen(pv.Position)
		if pv.Impacted {
			vector.FillCircle(dst, x, y, 0.25*scale, colImpact, true)
			continue
		}
		tx, ty := v.cam.toScreen(pv.Position.Sub(pv.Heading.Scale(0.4)))
		vector.StrokeLine(dst, tx, ty, x, y, 2, factionColor(pv.Faction), true)
	}

	state := "running"
	if v.paused {
		state = "paused"
	}
	counts := v.world.Factions()
	ebitenutil.DebugPrint(dst, fmt.Sprintf(
		"%s  t=%.1fs  x%.2f  %s\nfriends %d  enemies %d\n[space] pause  [ ] speed  WASD pan  wheel zoom",
		v.scenario.Name, v.world.Now(), speeds[v.speedIdx], state,
		counts[model.FactionFriend], counts[model.FactionEnemy]))
}

func (v *viewer) drawAgent(dst *ebiten.Image, a *unit.Agent, scale float32) {
	x, y := v.cam.toScreen(a.Position())
	r := float32(a.HitboxRadius()) * scale

	c := factionColor(a.Faction())
	if a.State() == model.StateDying {
		c = colDying
	}
	if a.IsStatic() {
		vector.FillRect(dst, x-r, y-r, 2*r, 2*r, c, false)
	} else {
		vector.FillCircle(dst, x, y, r, c, true)
	}
	if a.Traversal() == model.TraversalAir {
		vector.StrokeCircle(dst, x, y, r+2, 1, colNeutral, true)
	}
	if a.State() == model.StateDying {
		return
	}

	// полоска здоровья над агентом
	w := 2 * r
	vector.FillRect(dst, x-r, y-r-5, w, 3, colHPBack, false)
	vector.FillRect(dst, x-r, y-r-5, w*float32(a.Health().Fraction()), 3, colHPFront, false)
}

func (v *viewer) drawRect(dst *ebiten.Image, r config.Rect, c color.Color) {
	x0, y0 := v.cam.toScreen(model.V(r.MinX, r.MinY))
	x1, y1 := v.cam.toScreen(model.V(r.MaxX, r.MaxY))
	vector.FillRect(dst, x0, y0, x1-x0, y1-y0, c, false)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return v.cam.width, v.cam.height
}

func factionColor(f model.Faction) color.Color {
	switch f {
	case model.FactionFriend:
		return colFriend
	case model.FactionEnemy:
		return colEnemy
	default:
		return colNeutral
	}
}
