package action

import (
	"github.com/milk9111/cmdstack/common"
	"github.com/milk9111/cmdstack/program"
)

// Phase is one timed sub-step of an action. Start runs once when the phase
// begins, Step runs on every tick of the phase.
type Phase struct {
	Name     string
	Duration Duration
	Start    func(b Body)
	Step     func(b Body, tick int)
}

// Descriptor is the full action for one instruction.
type Descriptor struct {
	Instruction program.Instruction
	Phases      []Phase
}

// TotalTicks is the length of the descriptor when every conditional phase
// runs to its bound.
func (d Descriptor) TotalTicks() int {
	n := 0
	for _, p := range d.Phases {
		n += p.Duration.Ticks()
	}
	return n
}

// Wait is a phase with no physical effect.
func Wait(name string, ticks int) Phase {
	return Phase{Name: name, Duration: Fixed(ticks)}
}

// Roll pivots the body a total of angle radians around its bottom edge on
// the side of dir (+1 right, -1 left), at a constant rate over ticks. A
// quarter turn moves a square body one edge length.
func Roll(name string, angle, dir float64, ticks int) Phase {
	d := Fixed(ticks)
	var pivotX, pivotY float64
	step := angle / float64(d.Ticks())
	return Phase{
		Name:     name,
		Duration: d,
		Start: func(b Body) {
			x, y := b.Position()
			half := b.Size() / 2
			pivotX = x + dir*half
			pivotY = y + half
			b.SetVelocity(0, 0)
		},
		Step: func(b Body, _ int) {
			x, y := b.Position()
			nx, ny := common.RotateAround(x, y, pivotX, pivotY, dir*step)
			b.SetPose(nx, ny, b.Angle()+dir*step)
			b.SetVelocity(0, 0)
		},
	}
}

// Translate moves the body by (dx, dy) pixels at once, then lets it settle
// for the duration.
func Translate(name string, dx, dy float64, d Duration) Phase {
	return Phase{
		Name:     name,
		Duration: d,
		Start: func(b Body) {
			x, y := b.Position()
			b.SetPose(x+dx, y+dy, b.Angle())
		},
	}
}

// Impulse changes the body's velocity by (dvx, dvy) pixels per second at
// once, then lets it settle for the duration.
func Impulse(name string, dvx, dvy float64, d Duration) Phase {
	return Phase{
		Name:     name,
		Duration: d,
		Start: func(b Body) {
			m := b.Mass()
			b.ApplyImpulse(dvx*m, dvy*m)
		},
	}
}
