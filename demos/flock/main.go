// flock binds 20,000 keyed data points to glyphs and rebinds them every
// couple of seconds: survivors glide to new cluster positions, a slice of
// the population retires, and fresh points fade in — all scheduled under
// the per-frame work budget so the frame rate holds. Click a glyph to
// retire it by hand.
package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/spritefield"
	"github.com/tanema/gween/ease"
)

const (
	screenW = 1280
	screenH = 720
	count   = 20_000
	// Frames between rebinds. Shorter than the transition, so glyphs are
	// usually mid-flight when the next bind lands on them.
	rebindEvery = 120
	churn       = 0.1 // fraction replaced per rebind
)

type point struct {
	id      int
	x, y    float64
	cluster int
}

type game struct {
	field  *spritefield.Field
	sel    *spritefield.Selection
	points []*point
	data   []any
	nextID int
	frame  int
}

var clusterColors = []spritefield.Color{
	{R: 0.95, G: 0.55, B: 0.25, A: 0.9},
	{R: 0.35, G: 0.75, B: 0.95, A: 0.9},
	{R: 0.55, G: 0.9, B: 0.45, A: 0.9},
	{R: 0.9, G: 0.4, B: 0.7, A: 0.9},
}

func newGame() *game {
	g := &game{
		field: spritefield.NewField(spritefield.FieldConfig{
			Capacity:      count + count/8,
			MaxWorkTimeMs: 6,
			Ease:          ease.OutQuad,
		}),
	}
	g.sel = g.field.NewSelection(spritefield.Callbacks{
		OnInit: func(v *spritefield.SpriteView) {
			p := v.Datum().(*point)
			// Spawn at the final position with zero size; the enter
			// transition grows the glyph in place.
			v.SetPosition(p.x, p.y)
		},
		OnEnter: func(v *spritefield.SpriteView) {
			p := v.Datum().(*point)
			v.SetSize(3, 3)
			v.SetColor(clusterColors[p.cluster])
			v.SetTransitionTimeMs(800)
		},
		OnUpdate: func(v *spritefield.SpriteView) {
			p := v.Datum().(*point)
			v.SetPosition(p.x, p.y)
			v.SetColor(clusterColors[p.cluster])
			v.SetTransitionTimeMs(1600)
		},
		OnExit: func(v *spritefield.SpriteView) {
			v.SetSize(0, 0)
			v.SetTransitionTimeMs(500)
		},
	})

	g.points = make([]*point, 0, count)
	for i := 0; i < count; i++ {
		g.points = append(g.points, g.spawnPoint())
	}
	g.rebind()
	return g
}

func (g *game) spawnPoint() *point {
	p := &point{id: g.nextID, cluster: rand.IntN(len(clusterColors))}
	g.nextID++
	g.scatter(p)
	return p
}

// scatter places p near its cluster's center, which orbits the screen
// slowly so every rebind has somewhere new to go.
func (g *game) scatter(p *point) {
	t := float64(g.frame) / 600
	angle := t + float64(p.cluster)*2*math.Pi/float64(len(clusterColors))
	cx := screenW/2 + math.Cos(angle)*screenW/3.2
	cy := screenH/2 + math.Sin(angle)*screenH/3.2
	r := rand.Float64() * 140
	a := rand.Float64() * 2 * math.Pi
	p.x = cx + math.Cos(a)*r
	p.y = cy + math.Sin(a)*r
}

func (g *game) rebind() {
	g.data = g.data[:0]
	for _, p := range g.points {
		g.data = append(g.data, p)
	}
	g.sel.Bind(g.data, func(d any) string {
		return fmt.Sprintf("%d", d.(*point).id)
	})
}

func (g *game) Update() error {
	g.field.Update()
	g.frame++

	if g.frame%rebindEvery == 0 {
		// Replace a slice of the population and move the rest.
		drop := int(float64(len(g.points)) * churn)
		g.points = g.points[:len(g.points)-drop]
		for _, p := range g.points {
			g.scatter(p)
		}
		for i := 0; i < drop; i++ {
			g.points = append(g.points, g.spawnPoint())
		}
		g.rebind()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if d, ok := g.field.HitTest(float64(mx), float64(my)); ok {
			id := d.(*point).id
			for i, p := range g.points {
				if p.id == id {
					g.points = append(g.points[:i], g.points[i+1:]...)
					break
				}
			}
			g.rebind()
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)
	g.field.Draw(screen)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS %0.0f  live %d/%d",
		ebiten.ActualFPS(), g.field.LiveCount(), g.field.Capacity()))
}

func (g *game) Layout(w, h int) (int, int) { return screenW, screenH }

var colorBG = color.RGBA{R: 15, G: 15, B: 23, A: 255}

func main() {
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("spritefield - 20k flock")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
