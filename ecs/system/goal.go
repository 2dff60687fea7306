package system

import (
	"log/slog"

	"github.com/milk9111/cmdstack/ecs"
	"github.com/milk9111/cmdstack/ecs/component"
	"github.com/milk9111/cmdstack/logs"
	"github.com/milk9111/cmdstack/win"
)

// GoalSystem forwards actor/goal overlap events to the goal sensor. It must
// run after the physics system in the same world update.
type GoalSystem struct {
	sensor win.Sensor
	log    *slog.Logger
}

func NewGoalSystem(log *slog.Logger) *GoalSystem {
	return &GoalSystem{log: logs.Or(log).With("component", "goal")}
}

func (g *GoalSystem) SetSensor(s win.Sensor) {
	g.sensor = s
}

func (g *GoalSystem) Update(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		if g.sensor == nil {
			continue
		}
		if !ecs.Has(w, evt.Sensor, component.GoalTagComponent) || !ecs.Has(w, evt.Other, component.ActorTagComponent) {
			continue
		}
		g.log.Debug("goal overlap", "kind", evt.Kind.String(), "goal", evt.Sensor.String())
		switch evt.Kind {
		case ecs.OverlapBegin:
			g.sensor.OnGoalEnter()
		case ecs.OverlapEnd:
			g.sensor.OnGoalExit()
		}
	}
}
