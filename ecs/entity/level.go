package entity

import (
	"fmt"

	"github.com/milk9111/cmdstack/common"
	"github.com/milk9111/cmdstack/ecs"
	"github.com/milk9111/cmdstack/levels"
	"github.com/milk9111/cmdstack/prefabs"
)

// LevelEntities are the handles LoadLevelToWorld hands back.
type LevelEntities struct {
	Actor     ecs.Entity
	Goal      ecs.Entity
	Platforms []ecs.Entity
}

// LoadLevelToWorld creates the platform, goal and actor entities for lvl.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level, b *prefabs.Bundle, unit float64) (LevelEntities, error) {
	var out LevelEntities
	if err := lvl.Check(); err != nil {
		return out, err
	}
	for i, el := range lvl.Elements {
		var err error
		switch el.Type {
		case levels.ElementPlatform:
			var e ecs.Entity
			if e, err = NewPlatformAt(w, b.Platform, el.X, el.Y, unit); err == nil {
				out.Platforms = append(out.Platforms, e)
			}
		case levels.ElementGoal:
			out.Goal, err = NewGoalAt(w, b.Goal, el.X, el.Y, unit)
		case levels.ElementPlayerStart:
			out.Actor, err = NewActorAt(w, b.Actor, el.X, el.Y, unit)
		default:
			err = fmt.Errorf("unknown element type %q: %w", el.Type, common.ErrConfiguration)
		}
		if err != nil {
			return out, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}
