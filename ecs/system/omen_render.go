package system

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"golang.org/x/image/colornames"
)

// OmenRenderSystem draws omen outlines, fake actors and the local player for
// the debug viewer. It has no simulation behavior.
type OmenRenderSystem struct {
	Segments int
}

func NewOmenRenderSystem() *OmenRenderSystem {
	return &OmenRenderSystem{Segments: 48}
}

func (s *OmenRenderSystem) Update(w *ecs.World) {}

func (s *OmenRenderSystem) Draw(w *ecs.World, screen *ebiten.Image, cam ecs.Camera) {
	if w == nil || screen == nil {
		return
	}
	toScreen := cameraTransform(screen, cam)

	ecs.ForEach(w, component.OmenComponent.Kind(), func(e ecs.Entity, o *component.Omen) {
		if o.Shape == nil {
			return
		}
		clr := fade(colornames.Orangered, OmenAlpha(w, e))
		for _, line := range geom.Outline(o.Shape, s.Segments) {
			drawPolyline(screen, line, toScreen, 2, clr)
		}
	})

	ecs.ForEach2(w, component.FakeActorComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, a *component.FakeActor, t *component.Transform) {
		r := a.HitRadius
		if r <= 0 {
			r = 1
		}
		drawActor(screen, t, r, toScreen, colornames.Mediumpurple)
	})

	if e, _, ok := LocalPlayer(w); ok {
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			drawActor(screen, t, 0.5, toScreen, colornames.Lightskyblue)
		}
	}
}

func cameraTransform(screen *ebiten.Image, cam ecs.Camera) func(cp.Vector) (float32, float32) {
	b := screen.Bounds()
	halfW, halfH := float64(b.Dx())/2, float64(b.Dy())/2
	return func(p cp.Vector) (float32, float32) {
		// +Z points up the screen.
		return float32((p.X-cam.CenterX)*cam.Zoom + halfW), float32(halfH - (p.Y-cam.CenterZ)*cam.Zoom)
	}
}

func drawPolyline(screen *ebiten.Image, pts []cp.Vector, toScreen func(cp.Vector) (float32, float32), width float32, clr color.Color) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := toScreen(pts[i-1])
		x1, y1 := toScreen(pts[i])
		vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
	}
}

func drawActor(screen *ebiten.Image, t *component.Transform, radius float64, toScreen func(cp.Vector) (float32, float32), clr color.Color) {
	center := t.Ground()
	ring := geom.Outline(geom.CircleShape{Center: center, Radius: radius}, 24)
	for _, line := range ring {
		drawPolyline(screen, line, toScreen, 1.5, clr)
	}
	drawPolyline(screen, []cp.Vector{center, geom.PointOnCircle(center, radius*1.5, t.Rotation)}, toScreen, 1.5, clr)
}

func fade(c color.RGBA, alpha float64) color.RGBA {
	a := clamp01(alpha)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
