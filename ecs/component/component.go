package component

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

var nextComponentID atomic.Uint32

// Kind is the untyped view of a component kind, used by queries that mix
// component types.
type Kind interface {
	ID() ComponentID
	Name() string
}

type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

func NewComponentKind[T any]() ComponentKind[T] {
	var zero T
	return ComponentKind[T]{
		id:   ComponentID(nextComponentID.Add(1)),
		name: fmt.Sprintf("%T", zero),
	}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

func (k ComponentKind[T]) Name() string { return k.name }

func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

// ComponentHandle is the typed accessor passed to ecs.Add, ecs.Get and
// friends.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
