package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/cmdstack/common"
	"github.com/milk9111/cmdstack/ecs"
	"github.com/milk9111/cmdstack/ecs/component"
)

const (
	collisionTypeActor cp.CollisionType = iota + 1
	collisionTypeSolid
	collisionTypeGoal
)

const defaultIterations = 20

// PhysicsOptions configures the Chipmunk space. Gravity is in pixels per
// second squared, positive down.
type PhysicsOptions struct {
	Gravity    float64
	Iterations int
	TPS        int
}

type PhysicsSystem struct {
	opts          PhysicsOptions
	space         *cp.Space
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	events   *ecs.EventQueue
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	ctype  cp.CollisionType
	static bool
}

func NewPhysicsSystem(opts PhysicsOptions) *PhysicsSystem {
	ps := &PhysicsSystem{}
	ps.Configure(opts)
	ps.Reset()
	return ps
}

// Configure changes the space settings. They apply from the next Reset.
func (ps *PhysicsSystem) Configure(opts PhysicsOptions) {
	if opts.Iterations <= 0 {
		opts.Iterations = defaultIterations
	}
	if opts.TPS <= 0 {
		opts.TPS = common.TPS
	}
	ps.opts = opts
}

// Reset drops every body and starts over with an empty space.
func (ps *PhysicsSystem) Reset() {
	space := cp.NewSpace()
	space.Iterations = uint(ps.opts.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: ps.opts.Gravity})
	ps.space = space
	ps.handlersReady = false
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.shapes = make(map[*cp.Shape]ecs.Entity)
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Update steps the space by one tick and copies body poses back to
// transforms. Goal overlap transitions are queued on the world's events.
func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.Sync(w)
	ps.space.Step(1.0 / float64(ps.opts.TPS))
	ps.syncTransforms(w)
}

// Sync creates bodies for new physics entities and removes the bodies of
// destroyed ones.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	ps.events = w.Events()
	ps.ensureHandlers()
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		if _, ok := ps.entities[e]; ok {
			continue
		}
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
		transform, _ := ecs.Get(w, e, component.TransformComponent)

		info := ps.createBodyInfo(transform, bodyComp, collisionTypeFor(w, e))
		ps.entities[e] = info
		ps.shapes[info.shape] = e

		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
		_ = ecs.Add(w, e, component.PhysicsBodyComponent, bodyComp)
	}
}

func collisionTypeFor(w *ecs.World, e ecs.Entity) cp.CollisionType {
	switch {
	case ecs.Has(w, e, component.ActorTagComponent):
		return collisionTypeActor
	case ecs.Has(w, e, component.GoalTagComponent):
		return collisionTypeGoal
	}
	return collisionTypeSolid
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	goalHandler := ps.space.NewCollisionHandler(collisionTypeActor, collisionTypeGoal)
	goalHandler.UserData = ps
	goalHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if sys, ok := userData.(*PhysicsSystem); ok {
			sys.pushOverlap(arb, ecs.OverlapBegin)
		}
		return true
	}
	goalHandler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		if sys, ok := userData.(*PhysicsSystem); ok {
			sys.pushOverlap(arb, ecs.OverlapEnd)
		}
	}

	ps.handlersReady = true
}

// pushOverlap queues an event for the actor/goal pair.
func (ps *PhysicsSystem) pushOverlap(arb *cp.Arbiter, kind ecs.OverlapKind) {
	shapeA, shapeB := arb.Shapes()
	actor, okA := ps.shapes[shapeA]
	goal, okB := ps.shapes[shapeB]
	if !okA || !okB {
		return
	}
	if info, ok := ps.entities[actor]; ok && info.ctype == collisionTypeGoal {
		actor, goal = goal, actor
	}
	ps.events.Push(ecs.OverlapEvent{Sensor: goal, Other: actor, Kind: kind})
}

func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp component.PhysicsBody, ctype cp.CollisionType) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		width, height = common.UnitSize, common.UnitSize
	}

	if bodyComp.Static {
		bb := cp.BB{
			L: transform.X - width/2,
			B: transform.Y - height/2,
			R: transform.X + width/2,
			T: transform.Y + height/2,
		}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		configureShape(shape, bodyComp, ctype)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shape: shape, ctype: ctype, static: true}
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, cp.MomentForBox(mass, width, height))
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)
	body.SetAngularVelocity(0)

	shape := cp.NewBox(body, width, height, 0)
	configureShape(shape, bodyComp, ctype)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return &bodyInfo{body: body, shape: shape, ctype: ctype}
}

func configureShape(shape *cp.Shape, bodyComp component.PhysicsBody, ctype cp.CollisionType) {
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(ctype)
	if bodyComp.Sensor {
		shape.SetSensor(true)
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		pos := info.body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = info.body.Angle()
		_ = ecs.Add(w, e, component.TransformComponent, transform)
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent) {
			continue
		}
		ps.space.RemoveShape(info.shape)
		delete(ps.shapes, info.shape)
		if !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}
