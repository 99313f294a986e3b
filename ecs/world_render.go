package ecs

import "github.com/hajimehoshi/ebiten/v2"

// Camera maps ground-plane coordinates to screen pixels.
type Camera struct {
	CenterX float64
	CenterZ float64
	Zoom    float64
}

// RenderSystem draws ECS state for debugging.
type RenderSystem interface {
	Draw(w *World, screen *ebiten.Image, cam Camera)
}

// Draw calls all render-capable systems in update order.
func (w *World) Draw(screen *ebiten.Image, cam Camera) {
	if w == nil || screen == nil {
		return
	}
	if cam.Zoom <= 0 {
		cam.Zoom = 1
	}
	for _, s := range w.scheduler.Systems() {
		rs, ok := s.(RenderSystem)
		if !ok || rs == nil {
			continue
		}
		rs.Draw(w, screen, cam)
	}
}
