package ecs

import (
	"fmt"

	"github.com/milk9111/cmdstack/ecs/component"
)

func CreateEntity(w *World) Entity { return w.CreateEntity() }

func DestroyEntity(w *World, e Entity) bool { return w.DestroyEntity(e) }

func IsAlive(w *World, e Entity) bool { return w.IsAlive(e) }

func Entities(w *World) []Entity { return w.Entities() }

// Add sets the component for e, replacing any previous value.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	kind := handle.Kind()
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if !w.IsAlive(e) {
		return fmt.Errorf("add %s to %s: %w", kind.Name(), e, component.ErrEntityNotAlive)
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.store(handle.Kind().ID(), false).Remove(e)
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.IsAlive(e) && w.store(handle.Kind().ID(), false).Has(e)
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	if !w.IsAlive(e) {
		return zero, false
	}
	value, ok := w.store(handle.Kind().ID(), false).Get(e).(T)
	if !ok {
		return zero, false
	}
	return value, true
}

// ForEach visits every live entity with the component.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(Entity, T)) {
	for _, e := range w.Query(handle.Kind()) {
		if v, ok := Get(w, e, handle); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits every live entity with both components.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(Entity, A, B)) {
	for _, e := range w.Query(ha.Kind(), hb.Kind()) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// ForEach3 visits every live entity with all three components.
func ForEach3[A, B, C any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], hc component.ComponentHandle[C], fn func(Entity, A, B, C)) {
	for _, e := range w.Query(ha.Kind(), hb.Kind(), hc.Kind()) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		c, okC := Get(w, e, hc)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}
