package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/cmdstack/ecs"
	"github.com/milk9111/cmdstack/ecs/component"
	"github.com/milk9111/cmdstack/prefabs"
)

const (
	layerPlatform = iota
	layerGoal
	layerActor
)

var (
	defaultPlatformColor = color.NRGBA{R: 0x5c, G: 0x67, B: 0x84, A: 0xff}
	defaultGoalColor     = color.NRGBA{R: 0x4e, G: 0xcb, B: 0x71, A: 0xaa}
	defaultActorColor    = color.NRGBA{R: 0xf2, G: 0xc1, B: 0x4e, A: 0xff}
)

// cellBottom returns the center of a w x h pixel box resting on the bottom
// edge of grid cell (gx, gy), horizontally centered in the cell.
func cellBottom(gx, gy, w, h, unit float64) (float64, float64) {
	return (gx + 0.5) * unit, (gy+1)*unit - h/2
}

func units(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}

// NewPlatformAt builds a static platform filling grid cell (gx, gy).
func NewPlatformAt(w *ecs.World, spec prefabs.PlatformSpec, gx, gy, unit float64) (ecs.Entity, error) {
	width := units(spec.Width, 1) * unit
	height := units(spec.Height, 1) * unit
	x, y := cellBottom(gx, gy, width, height, unit)

	e := ecs.CreateEntity(w)
	if err := addBody(w, e, x, y, component.PhysicsBody{
		Width:      width,
		Height:     height,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
		Static:     true,
	}); err != nil {
		return 0, fmt.Errorf("platform: %w", err)
	}
	if err := ecs.Add(w, e, component.PlatformTagComponent, component.PlatformTag{}); err != nil {
		return 0, fmt.Errorf("platform: %w", err)
	}
	if err := addRect(w, e, width, height, spec.Color.Or(defaultPlatformColor), layerPlatform); err != nil {
		return 0, fmt.Errorf("platform: %w", err)
	}
	return e, nil
}

// NewGoalAt builds the goal sensor resting in grid cell (gx, gy).
func NewGoalAt(w *ecs.World, spec prefabs.GoalSpec, gx, gy, unit float64) (ecs.Entity, error) {
	width := units(spec.Width, 1) * unit
	height := units(spec.Height, 1) * unit
	x, y := cellBottom(gx, gy, width, height, unit)

	e := ecs.CreateEntity(w)
	if err := addBody(w, e, x, y, component.PhysicsBody{
		Width:  width,
		Height: height,
		Static: true,
		Sensor: true,
	}); err != nil {
		return 0, fmt.Errorf("goal: %w", err)
	}
	if err := ecs.Add(w, e, component.GoalTagComponent, component.GoalTag{}); err != nil {
		return 0, fmt.Errorf("goal: %w", err)
	}
	if err := addRect(w, e, width, height, spec.Color.Or(defaultGoalColor), layerGoal); err != nil {
		return 0, fmt.Errorf("goal: %w", err)
	}
	return e, nil
}

// NewActorAt builds the dynamic actor resting in grid cell (gx, gy) and
// records that pose as its spawn.
func NewActorAt(w *ecs.World, spec prefabs.ActorSpec, gx, gy, unit float64) (ecs.Entity, error) {
	size := units(spec.Size, 1) * unit
	x, y := cellBottom(gx, gy, size, size, unit)

	e := ecs.CreateEntity(w)
	if err := addBody(w, e, x, y, component.PhysicsBody{
		Width:      size,
		Height:     size,
		Mass:       units(spec.Mass, 1),
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
	}); err != nil {
		return 0, fmt.Errorf("actor: %w", err)
	}
	if err := ecs.Add(w, e, component.ActorTagComponent, component.ActorTag{}); err != nil {
		return 0, fmt.Errorf("actor: %w", err)
	}
	if err := ecs.Add(w, e, component.SpawnComponent, component.Spawn{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("actor: %w", err)
	}
	if err := addRect(w, e, size, size, spec.Color.Or(defaultActorColor), layerActor); err != nil {
		return 0, fmt.Errorf("actor: %w", err)
	}
	return e, nil
}

func addBody(w *ecs.World, e ecs.Entity, x, y float64, body component.PhysicsBody) error {
	if err := ecs.Add(w, e, component.TransformComponent, component.Transform{X: x, Y: y}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent, body)
}

func addRect(w *ecs.World, e ecs.Entity, width, height float64, c color.Color, layer int) error {
	return ecs.Add(w, e, component.RectComponent, component.Rect{
		Width:  width,
		Height: height,
		Color:  c,
		Layer:  layer,
	})
}
