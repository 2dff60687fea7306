package ecs

import "github.com/milk9111/cmdstack/ecs/component"

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// World owns entities, their components and the system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	systems  []System
	events   EventQueue
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes e and all of its components.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

func (w *World) IsAlive(e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities lists live entities in id order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, w.entities.count)
	w.entities.each(func(e Entity) { out = append(out, e) })
	return out
}

// Clear destroys every entity. Systems stay registered.
func (w *World) Clear() {
	for _, e := range w.Entities() {
		w.DestroyEntity(e)
	}
	w.events.flush()
}

func (w *World) AddSystem(s System) {
	if s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs all systems once, then drops undrained events.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		s.Update(w)
	}
	w.events.flush()
}

func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Query returns the live entities that have every kind, in the order of
// the smallest store.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil || s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	var out []Entity
outer:
	for _, e := range smallest.Entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		for _, s := range sets {
			if s != smallest && !s.Has(e) {
				continue outer
			}
		}
		out = append(out, e)
	}
	return out
}

// First returns any live entity with kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	for _, e := range w.store(kind.ID(), false).Entities() {
		if w.entities.isAlive(e) {
			return e, true
		}
	}
	return 0, false
}
