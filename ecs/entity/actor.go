package entity

import "github.com/jakecoffman/cp"

// Actor drives the actor's Chipmunk body. Positions are body centers in
// pixels.
type Actor struct {
	body       *cp.Body
	size       float64
	spawnX     float64
	spawnY     float64
	spawnAngle float64
}

func (a *Actor) Position() (float64, float64) {
	p := a.body.Position()
	return p.X, p.Y
}

func (a *Actor) Angle() float64 { return a.body.Angle() }

func (a *Actor) Velocity() (float64, float64) {
	v := a.body.Velocity()
	return v.X, v.Y
}

func (a *Actor) Mass() float64 { return a.body.Mass() }

func (a *Actor) Size() float64 { return a.size }

func (a *Actor) SetPose(x, y, angle float64) {
	a.body.SetPosition(cp.Vector{X: x, Y: y})
	a.body.SetAngle(angle)
	a.body.Activate()
}

// SetVelocity sets the linear velocity and stops any spin.
func (a *Actor) SetVelocity(vx, vy float64) {
	a.body.SetVelocity(vx, vy)
	a.body.SetAngularVelocity(0)
	a.body.Activate()
}

func (a *Actor) ApplyImpulse(ix, iy float64) {
	a.body.ApplyImpulseAtWorldPoint(cp.Vector{X: ix, Y: iy}, a.body.Position())
	a.body.Activate()
}

// Reset puts the actor back at its spawn pose, at rest.
func (a *Actor) Reset() {
	a.SetPose(a.spawnX, a.spawnY, a.spawnAngle)
	a.SetVelocity(0, 0)
}
