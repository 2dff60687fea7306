package action

import (
	"fmt"
	"log/slog"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/cmdstack/logs"
)

// ScriptCondition evaluates a tengo script on every tick of a phase. The
// script sees x, y, vx, vy, angle (grid units and radians) and tick, and must
// assign a bool named done.
type ScriptCondition struct {
	name     string
	unit     float64
	compiled *tengo.Compiled
	log      *slog.Logger
	failed   bool
}

var scriptInputs = []string{"x", "y", "vx", "vy", "angle", "tick"}

func NewScriptCondition(name string, src []byte, unit float64, log *slog.Logger) (*ScriptCondition, error) {
	if unit <= 0 {
		unit = 1
	}
	script := tengo.NewScript(src)
	for _, in := range scriptInputs {
		var zero any = 0.0
		if in == "tick" {
			zero = 0
		}
		if err := script.Add(in, zero); err != nil {
			return nil, fmt.Errorf("action: condition %s: add %s: %w", name, in, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("action: condition %s: compile: %w", name, err)
	}
	// Globals only exist after a run; probe once with the zero inputs.
	if err := runScript(compiled); err != nil {
		return nil, fmt.Errorf("action: condition %s: probe run: %w", name, err)
	}
	if !compiled.IsDefined("done") {
		return nil, fmt.Errorf("action: condition %s: script does not define done", name)
	}
	return &ScriptCondition{
		name:     name,
		unit:     unit,
		compiled: compiled,
		log:      logs.Or(log).With("component", "condition", "script", name),
	}, nil
}

// runScript executes compiled, turning a VM panic into an error.
func runScript(compiled *tengo.Compiled) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return compiled.Run()
}

// Done runs the script. A script that fails to run ends the phase, and the
// failure is logged once.
func (c *ScriptCondition) Done(b Body, tick int) (done bool) {
	defer func() {
		if r := recover(); r != nil {
			done = c.fail(fmt.Errorf("panic: %v", r))
		}
	}()
	x, y := b.Position()
	vx, vy := b.Velocity()
	vars := map[string]any{
		"x":     x / c.unit,
		"y":     y / c.unit,
		"vx":    vx / c.unit,
		"vy":    vy / c.unit,
		"angle": b.Angle(),
		"tick":  tick,
	}
	for name, v := range vars {
		if err := c.compiled.Set(name, v); err != nil {
			return c.fail(err)
		}
	}
	if err := c.compiled.Run(); err != nil {
		return c.fail(err)
	}
	return c.compiled.Get("done").Bool()
}

func (c *ScriptCondition) fail(err error) bool {
	if !c.failed {
		c.log.Error("condition script failed, ending phase", "error", err)
		c.failed = true
	}
	return true
}
