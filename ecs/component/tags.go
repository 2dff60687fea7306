package component

import "image/color"

type ActorTag struct{}

var ActorTagComponent = NewComponent[ActorTag]()

type GoalTag struct{}

var GoalTagComponent = NewComponent[GoalTag]()

type PlatformTag struct{}

var PlatformTagComponent = NewComponent[PlatformTag]()

// Rect is drawn as a filled rectangle centered on the transform.
type Rect struct {
	Width  float64
	Height float64
	Color  color.Color
	Layer  int
}

var RectComponent = NewComponent[Rect]()
