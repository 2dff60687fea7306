package system

import (
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/cmdstack/ecs"
	"github.com/milk9111/cmdstack/ecs/component"
	"github.com/milk9111/cmdstack/win"
)

func addBox(t *testing.T, w *ecs.World, x, y float64, body component.PhysicsBody) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent, component.Transform{X: x, Y: y}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent, body); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestDynamicBodyFallsAndSyncs(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(PhysicsOptions{Gravity: 300})
	w.AddSystem(ps)
	e := addBox(t, w, 100, 100, component.PhysicsBody{Width: 32, Height: 32, Mass: 1})

	for range 30 {
		w.Update()
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent)
	if tr.Y <= 100 || tr.X != 100 {
		t.Fatalf("transform after fall = %+v", tr)
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
	if body.Body == nil || body.Shape == nil {
		t.Fatalf("runtime body not stored on component")
	}
}

func TestStaticBodyBlocksFall(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(PhysicsOptions{Gravity: 300})
	w.AddSystem(ps)
	addBox(t, w, 100, 200, component.PhysicsBody{Width: 128, Height: 32, Static: true, Friction: 1})
	e := addBox(t, w, 100, 150, component.PhysicsBody{Width: 32, Height: 32, Mass: 1, Friction: 1})

	for range 180 {
		w.Update()
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent)
	// Resting on the platform top at y=184.
	if tr.Y < 166 || tr.Y > 169 {
		t.Fatalf("box y = %v, want resting near 168", tr.Y)
	}
}

type recordingSensor struct {
	events []string
}

func (r *recordingSensor) OnGoalEnter() { r.events = append(r.events, "enter") }
func (r *recordingSensor) OnGoalExit()  { r.events = append(r.events, "exit") }

func TestGoalOverlapReachesSensor(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(PhysicsOptions{})
	goals := NewGoalSystem(nil)
	sensor := &recordingSensor{}
	tracker := win.NewTracker(nil)
	goals.SetSensor(multiSensor{sensor, tracker})
	w.AddSystem(ps)
	w.AddSystem(goals)

	goal := addBox(t, w, 0, 0, component.PhysicsBody{Width: 32, Height: 32, Static: true, Sensor: true})
	if err := ecs.Add(w, goal, component.GoalTagComponent, component.GoalTag{}); err != nil {
		t.Fatal(err)
	}
	actor := addBox(t, w, 200, 0, component.PhysicsBody{Width: 32, Height: 32, Mass: 1})
	if err := ecs.Add(w, actor, component.ActorTagComponent, component.ActorTag{}); err != nil {
		t.Fatal(err)
	}
	w.Update()
	if len(sensor.events) != 0 {
		t.Fatalf("unexpected events %v", sensor.events)
	}

	body, _ := ecs.Get(w, actor, component.PhysicsBodyComponent)
	body.Body.SetPosition(cp.Vector{X: 4, Y: 0})
	w.Update()
	w.Update()
	if !tracker.Inside() {
		t.Fatalf("tracker not inside after moving into goal, events %v", sensor.events)
	}

	body.Body.SetPosition(cp.Vector{X: 200, Y: 0})
	w.Update()
	w.Update()
	if tracker.Inside() {
		t.Fatalf("tracker still inside after leaving, events %v", sensor.events)
	}
	if len(sensor.events) != 2 || sensor.events[0] != "enter" || sensor.events[1] != "exit" {
		t.Fatalf("events = %v", sensor.events)
	}
}

type multiSensor []win.Sensor

func (m multiSensor) OnGoalEnter() {
	for _, s := range m {
		s.OnGoalEnter()
	}
}

func (m multiSensor) OnGoalExit() {
	for _, s := range m {
		s.OnGoalExit()
	}
}

func TestDestroyedEntityLeavesSpace(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(PhysicsOptions{})
	w.AddSystem(ps)
	e := addBox(t, w, 0, 0, component.PhysicsBody{Width: 32, Height: 32, Mass: 1})
	addBox(t, w, 0, 100, component.PhysicsBody{Width: 32, Height: 32, Static: true})
	w.Update()
	if len(ps.entities) != 2 {
		t.Fatalf("tracked bodies = %d", len(ps.entities))
	}
	ecs.DestroyEntity(w, e)
	w.Update()
	if len(ps.entities) != 1 || len(ps.shapes) != 1 {
		t.Fatalf("tracked bodies = %d shapes = %d after destroy", len(ps.entities), len(ps.shapes))
	}
	ps.Reset()
	if len(ps.entities) != 0 {
		t.Fatalf("Reset kept bodies")
	}
}
