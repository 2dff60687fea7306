package entity

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/cmdstack/common"
	"github.com/milk9111/cmdstack/ecs"
	"github.com/milk9111/cmdstack/ecs/component"
	"github.com/milk9111/cmdstack/ecs/system"
	"github.com/milk9111/cmdstack/interp"
	"github.com/milk9111/cmdstack/levels"
	"github.com/milk9111/cmdstack/logs"
	"github.com/milk9111/cmdstack/prefabs"
	"github.com/milk9111/cmdstack/win"
)

type StageOptions struct {
	UnitSize float64
	TPS      int
	Debug    bool
	Log      *slog.Logger
}

// Stage is the physics scene of one level: platforms, the actor and the
// goal sensor.
type Stage struct {
	log    *slog.Logger
	opts   StageOptions
	bundle *prefabs.Bundle

	world   *ecs.World
	physics *system.PhysicsSystem
	goals   *system.GoalSystem
	render  *system.RenderSystem
	actor   *Actor
}

func NewStage(bundle *prefabs.Bundle, opts StageOptions) *Stage {
	if opts.UnitSize <= 0 {
		opts.UnitSize = common.UnitSize
	}
	if opts.TPS <= 0 {
		opts.TPS = common.TPS
	}
	log := logs.Or(opts.Log).With("component", "stage")
	s := &Stage{
		log:    log,
		opts:   opts,
		world:  ecs.NewWorld(),
		goals:  system.NewGoalSystem(opts.Log),
		render: system.NewRenderSystem(),
	}
	s.render.Debug = opts.Debug
	s.SetBundle(bundle)
	s.world.AddSystem(s.physics)
	s.world.AddSystem(s.goals)
	return s
}

// SetBundle swaps the prefab specs. They take effect on the next Build.
func (s *Stage) SetBundle(b *prefabs.Bundle) {
	s.bundle = b
	opts := system.PhysicsOptions{
		Gravity:    b.World.Gravity * s.opts.UnitSize,
		Iterations: b.World.Iterations,
		TPS:        s.opts.TPS,
	}
	if s.physics == nil {
		s.physics = system.NewPhysicsSystem(opts)
	} else {
		s.physics.Configure(opts)
	}
	s.render.Background = b.World.Background.Or(nil)
}

// Build clears the previous scene and instantiates lvl. Goal overlap is
// reported to sensor.
func (s *Stage) Build(lvl *levels.Level, sensor win.Sensor) (interp.Actor, error) {
	s.world.Clear()
	s.physics.Reset()
	s.goals.SetSensor(sensor)
	s.actor = nil

	ents, err := LoadLevelToWorld(s.world, lvl, s.bundle, s.opts.UnitSize)
	if err != nil {
		s.world.Clear()
		return nil, fmt.Errorf("entity: build %q: %w", lvl.Name, err)
	}
	s.physics.Sync(s.world)

	body, _ := ecs.Get(s.world, ents.Actor, component.PhysicsBodyComponent)
	spawn, _ := ecs.Get(s.world, ents.Actor, component.SpawnComponent)
	s.actor = &Actor{
		body:       body.Body,
		size:       body.Width,
		spawnX:     spawn.X,
		spawnY:     spawn.Y,
		spawnAngle: spawn.Angle,
	}
	s.log.Info("stage built", "level", lvl.Name, "platforms", len(ents.Platforms))
	return s.actor, nil
}

// Step advances physics one tick and dispatches goal overlap.
func (s *Stage) Step() {
	s.world.Update()
}

func (s *Stage) Draw(screen *ebiten.Image) {
	s.render.Draw(s.world, screen)
}

func (s *Stage) World() *ecs.World { return s.world }
