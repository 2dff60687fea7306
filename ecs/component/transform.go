package component

// Transform is the pose of an entity's center in screen pixels. Rotation is
// in radians, clockwise on screen.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()

// Spawn is the pose an entity returns to when a run restarts.
type Spawn struct {
	X     float64
	Y     float64
	Angle float64
}

var SpawnComponent = NewComponent[Spawn]()
