package action

import (
	"math"
	"strings"
	"testing"

	"github.com/milk9111/cmdstack/common"
	"github.com/milk9111/cmdstack/prefabs"
	"github.com/milk9111/cmdstack/program"
)

// fakeBody is a kinematic stand-in for the physics handle.
type fakeBody struct {
	x, y, angle float64
	vx, vy      float64
	mass, size  float64
}

func (b *fakeBody) Position() (float64, float64) { return b.x, b.y }
func (b *fakeBody) Angle() float64               { return b.angle }
func (b *fakeBody) Velocity() (float64, float64) { return b.vx, b.vy }
func (b *fakeBody) Mass() float64                { return b.mass }
func (b *fakeBody) Size() float64                { return b.size }
func (b *fakeBody) SetPose(x, y, a float64)      { b.x, b.y, b.angle = x, y, a }
func (b *fakeBody) SetVelocity(vx, vy float64)   { b.vx, b.vy = vx, vy }
func (b *fakeBody) ApplyImpulse(ix, iy float64) {
	b.vx += ix / b.mass
	b.vy += iy / b.mass
}

// run drives a descriptor to completion the way the sequencer does and
// returns the number of ticks it took.
func run(d Descriptor, b Body) int {
	ticks := 0
	for _, p := range d.Phases {
		if p.Start != nil {
			p.Start(b)
		}
		for tick := 0; ; tick++ {
			if p.Step != nil {
				p.Step(b, tick)
			}
			ticks++
			if p.Duration.Done(b, tick+1) {
				break
			}
		}
	}
	return ticks
}

func embeddedLibrary(t *testing.T) *Library {
	t.Helper()
	b, err := prefabs.LoadBundle()
	if err != nil {
		t.Fatal(err)
	}
	lib, err := NewLibrary(b.Instructions, Options{UnitSize: common.UnitSize, TPS: common.TPS})
	if err != nil {
		t.Fatal(err)
	}
	return lib
}

func TestLibraryDurations(t *testing.T) {
	lib := embeddedLibrary(t)
	cases := []struct {
		tok   program.Instruction
		ticks int
	}{
		{program.Advance, 24 + 21},
		{program.Slide, 30},
		{program.Ascend, 42},
		{program.Observe, 60},
		{program.Pass, 24},
		{program.Empty, 15},
	}
	for _, c := range cases {
		t.Run(c.tok.String(), func(t *testing.T) {
			d := lib.Resolve(c.tok)
			if got := d.TotalTicks(); got != c.ticks {
				t.Fatalf("TotalTicks = %d, want %d", got, c.ticks)
			}
			b := &fakeBody{mass: 1, size: common.UnitSize}
			if got := run(d, b); got != c.ticks {
				t.Fatalf("ran %d ticks, want %d", got, c.ticks)
			}
		})
	}
}

func TestAdvanceRollsOneUnit(t *testing.T) {
	lib := embeddedLibrary(t)
	b := &fakeBody{x: 100, y: 200, mass: 1, size: common.UnitSize}
	run(lib.Resolve(program.Advance), b)

	if math.Abs(b.x-(100+common.UnitSize)) > 1e-6 || math.Abs(b.y-200) > 1e-6 {
		t.Fatalf("pose after roll = (%v, %v), want (%v, 200)", b.x, b.y, 100+common.UnitSize)
	}
	if math.Abs(b.angle-math.Pi/2) > 1e-9 {
		t.Fatalf("angle = %v, want pi/2", b.angle)
	}
}

func TestRollKeepsConstantRate(t *testing.T) {
	p := Roll("roll", math.Pi/2, 1, 10)
	b := &fakeBody{size: 2, mass: 1}
	p.Start(b)
	prev := b.angle
	for tick := 0; tick < 10; tick++ {
		p.Step(b, tick)
		if step := b.angle - prev; math.Abs(step-math.Pi/20) > 1e-12 {
			t.Fatalf("tick %d step = %v", tick, step)
		}
		prev = b.angle
	}
}

func TestSlideAndAscendEffects(t *testing.T) {
	lib := embeddedLibrary(t)

	b := &fakeBody{x: 10, y: 10, mass: 2, size: common.UnitSize}
	slide := lib.Resolve(program.Slide)
	slide.Phases[0].Start(b)
	if b.x != 10+common.UnitSize || b.y != 10 {
		t.Fatalf("slide moved to (%v, %v)", b.x, b.y)
	}

	ascend := lib.Resolve(program.Ascend)
	ascend.Phases[0].Start(b)
	if want := -6 * common.UnitSize; math.Abs(b.vy-want) > 1e-9 {
		t.Fatalf("vy after ascend = %v, want %v", b.vy, want)
	}
}

func TestResolveUnknownFallsBack(t *testing.T) {
	lib := embeddedLibrary(t)
	d := lib.Resolve(program.Instruction(99))
	if d.TotalTicks() != 15 || len(d.Phases) != 1 || d.Phases[0].Start != nil {
		t.Fatalf("fallback = %+v", d)
	}
}

func TestMissingSpecUsesFallback(t *testing.T) {
	lib, err := NewLibrary(prefabs.InstructionSetSpec{
		FallbackSeconds: 0.1,
		Instructions: map[string]prefabs.InstructionSpec{
			"pass": {Phases: []prefabs.PhaseSpec{{Kind: "wait", Seconds: 0.4}}},
		},
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := lib.Resolve(program.Observe).TotalTicks(); got != 6 {
		t.Fatalf("observe fallback ticks = %d, want 6", got)
	}
}

func TestNewLibraryErrors(t *testing.T) {
	cases := []struct {
		name string
		spec map[string]prefabs.InstructionSpec
		want string
	}{
		{"unknown_instruction", map[string]prefabs.InstructionSpec{"warp": {Phases: []prefabs.PhaseSpec{{Kind: "wait"}}}}, "unknown instruction"},
		{"no_phases", map[string]prefabs.InstructionSpec{"pass": {}}, "no phases"},
		{"bad_kind", map[string]prefabs.InstructionSpec{"pass": {Phases: []prefabs.PhaseSpec{{Kind: "spin"}}}}, "unknown phase kind"},
		{"missing_script", map[string]prefabs.InstructionSpec{"pass": {Phases: []prefabs.PhaseSpec{{Kind: "wait", Until: "nope.tengo"}}}}, "load condition"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewLibrary(prefabs.InstructionSetSpec{Instructions: c.spec}, Options{})
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("err = %v, want containing %q", err, c.want)
			}
		})
	}
}

func TestUntilConditionScript(t *testing.T) {
	lib, err := NewLibrary(prefabs.InstructionSetSpec{
		Instructions: map[string]prefabs.InstructionSpec{
			"ascend": {Phases: []prefabs.PhaseSpec{{
				Kind: "impulse", Speed: 6, Until: "landed.tengo", MaxSeconds: 2,
			}}},
		},
	}, Options{UnitSize: 32, TPS: 60})
	if err != nil {
		t.Fatal(err)
	}
	d := lib.Resolve(program.Ascend)
	if !d.Phases[0].Duration.Conditional() || d.Phases[0].Duration.Ticks() != 120 {
		t.Fatalf("duration = %+v", d.Phases[0].Duration)
	}

	b := &fakeBody{mass: 1, size: 32}
	d.Phases[0].Start(b)
	if d.Phases[0].Duration.Done(b, 10) {
		t.Fatalf("should not be done while rising")
	}
	b.vy = 0
	if d.Phases[0].Duration.Done(b, 3) {
		t.Fatalf("should not be done before min_ticks")
	}
	if !d.Phases[0].Duration.Done(b, 6) {
		t.Fatalf("should be done once still after min_ticks")
	}
	if !d.Phases[0].Duration.Done(&fakeBody{vy: -500}, 120) {
		t.Fatalf("bound must end the phase")
	}
}

func TestScriptConditionRejectsMissingDone(t *testing.T) {
	if _, err := NewScriptCondition("bad", []byte(`finished := true`), 32, nil); err == nil {
		t.Fatalf("expected error for script without done")
	}
	if _, err := NewScriptCondition("broken", []byte(`done := (`), 32, nil); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestScriptConditionRuntimeErrorEndsPhase(t *testing.T) {
	cond, err := NewScriptCondition("div", []byte(`done := tick > 0 ? (1 / (tick - tick)) > 0 : false`), 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cond.Done(&fakeBody{}, 3) {
		t.Fatalf("runtime error should end the phase")
	}
}

func TestScriptConditionPanicOnLoadIsError(t *testing.T) {
	_, err := NewScriptCondition("div0", []byte(`done := 1 / tick > 0`), 32, nil)
	if err == nil || !strings.Contains(err.Error(), "probe run") {
		t.Fatalf("err = %v, want probe run failure", err)
	}
}

func TestScriptConditionPanicEndsPhaseWithinLibrary(t *testing.T) {
	spec := prefabs.InstructionSetSpec{Instructions: map[string]prefabs.InstructionSpec{
		"observe": {Phases: []prefabs.PhaseSpec{{Kind: prefabs.PhaseWait, Seconds: 1, Until: "div.tengo"}}},
	}}
	scripts := func(string) ([]byte, error) {
		return []byte(`done := tick > 0 ? (1 / (tick - tick)) > 0 : false`), nil
	}
	lib, err := NewLibrary(spec, Options{Scripts: scripts})
	if err != nil {
		t.Fatal(err)
	}
	d := lib.Resolve(program.Observe)
	b := &fakeBody{mass: 1, size: 32}
	if !d.Phases[0].Duration.Done(b, 2) {
		t.Fatalf("failing condition should end the phase")
	}
	if got := run(d, b); got != 1 {
		t.Fatalf("phase ran %d ticks, want 1", got)
	}
}
