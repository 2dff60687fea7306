// Package action maps instructions to timed, physically effectful actions.
package action

// Body is the physics handle an action moves. Positions and velocities are in
// pixels, angles in radians, screen coordinates (y grows downward).
type Body interface {
	Position() (x, y float64)
	Angle() float64
	Velocity() (vx, vy float64)
	Mass() float64
	// Size is the edge length of the body's square collider.
	Size() float64

	SetPose(x, y, angle float64)
	SetVelocity(vx, vy float64)
	ApplyImpulse(ix, iy float64)
}
