package system

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/cmdstack/ecs"
	"github.com/milk9111/cmdstack/ecs/component"
)

// RenderSystem draws every Rect entity as a rotated filled rectangle.
type RenderSystem struct {
	Background color.Color
	// Debug prints entity and actor state in the corner.
	Debug bool

	pixel *ebiten.Image
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	if r.Background != nil {
		screen.Fill(r.Background)
	}
	if r.pixel == nil {
		r.pixel = ebiten.NewImage(1, 1)
		r.pixel.Fill(color.White)
	}

	entities := w.Query(component.TransformComponent.Kind(), component.RectComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		ri, _ := ecs.Get(w, entities[i], component.RectComponent)
		rj, _ := ecs.Get(w, entities[j], component.RectComponent)
		if ri.Layer != rj.Layer {
			return ri.Layer < rj.Layer
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		rect, _ := ecs.Get(w, e, component.RectComponent)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(rect.Width, rect.Height)
		op.GeoM.Translate(-rect.Width/2, -rect.Height/2)
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Translate(t.X, t.Y)
		op.ColorScale.ScaleWithColor(rect.Color)
		screen.DrawImage(r.pixel, op)
	}

	if !r.Debug {
		return
	}
	msg := fmt.Sprintf("entities: %d", len(w.Entities()))
	if actor, ok := w.First(component.ActorTagComponent.Kind()); ok {
		if t, ok := ecs.Get(w, actor, component.TransformComponent); ok {
			msg += fmt.Sprintf("\nactor: %.1f, %.1f  %.2f rad", t.X, t.Y, t.Rotation)
		}
	}
	ebitenutil.DebugPrintAt(screen, msg, 8, 8)
}
