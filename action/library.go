package action

import (
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/milk9111/cmdstack/common"
	"github.com/milk9111/cmdstack/logs"
	"github.com/milk9111/cmdstack/prefabs"
	"github.com/milk9111/cmdstack/program"
)

const defaultFallbackSeconds = 0.25

// Options configures unit conversion for NewLibrary.
type Options struct {
	// UnitSize converts authored grid units to pixels.
	UnitSize float64
	// TPS converts authored seconds to ticks.
	TPS int
	// Scripts loads condition scripts by name. Defaults to prefabs.LoadScript.
	Scripts func(name string) ([]byte, error)
	Log     *slog.Logger
}

// Library is the instruction to action table.
type Library struct {
	log      *slog.Logger
	table    map[program.Instruction]Descriptor
	fallback Descriptor
}

// NewLibrary builds descriptors from the instruction spec. Instructions the
// spec omits fall back to the default short wait.
func NewLibrary(spec prefabs.InstructionSetSpec, opts Options) (*Library, error) {
	if opts.UnitSize <= 0 {
		opts.UnitSize = common.UnitSize
	}
	if opts.TPS <= 0 {
		opts.TPS = common.TPS
	}
	if opts.Scripts == nil {
		opts.Scripts = prefabs.LoadScript
	}
	log := logs.Or(opts.Log).With("component", "actions")

	fallbackSeconds := spec.FallbackSeconds
	if fallbackSeconds <= 0 {
		fallbackSeconds = defaultFallbackSeconds
	}
	l := &Library{
		log:   log,
		table: make(map[program.Instruction]Descriptor, len(spec.Instructions)),
		fallback: Descriptor{
			Instruction: program.Empty,
			Phases:      []Phase{Wait("fallback", common.SecondsToTicks(fallbackSeconds, opts.TPS))},
		},
	}

	for _, name := range slices.Sorted(maps.Keys(spec.Instructions)) {
		ispec := spec.Instructions[name]
		tok, err := program.ParseInstruction(name)
		if err != nil {
			return nil, fmt.Errorf("action: instruction spec: %w", err)
		}
		if _, dup := l.table[tok]; dup {
			log.Warn("duplicate instruction spec ignored", "name", name, "instruction", tok.String())
			continue
		}
		desc := Descriptor{Instruction: tok}
		for i, ps := range ispec.Phases {
			phase, err := buildPhase(ps, opts, log)
			if err != nil {
				return nil, fmt.Errorf("action: %s phase %d: %w", tok, i, err)
			}
			desc.Phases = append(desc.Phases, phase)
		}
		if len(desc.Phases) == 0 {
			return nil, fmt.Errorf("action: %s has no phases: %w", tok, common.ErrConfiguration)
		}
		l.table[tok] = desc
	}

	for _, tok := range program.All() {
		if _, ok := l.table[tok]; !ok {
			log.Warn("instruction has no action spec, using fallback wait", "instruction", tok.String())
		}
	}
	return l, nil
}

// Resolve returns the descriptor for tok. Unknown instructions resolve to a
// short wait so a run never stalls.
func (l *Library) Resolve(tok program.Instruction) Descriptor {
	if d, ok := l.table[tok]; ok {
		return d
	}
	l.log.Warn("unresolved instruction, substituting wait", "instruction", tok.String())
	d := l.fallback
	d.Instruction = tok
	return d
}

func buildPhase(ps prefabs.PhaseSpec, opts Options, log *slog.Logger) (Phase, error) {
	name := ps.Name
	if name == "" {
		name = ps.Kind
	}
	dur, err := buildDuration(ps, opts, log)
	if err != nil {
		return Phase{}, err
	}
	dir := ps.Direction
	if dir == 0 {
		dir = 1
	}

	switch strings.ToLower(ps.Kind) {
	case prefabs.PhaseWait, "":
		p := Wait(name, dur.Ticks())
		p.Duration = dur
		return p, nil
	case prefabs.PhaseRoll:
		if ps.Until != "" {
			return Phase{}, fmt.Errorf("roll phase %q cannot be conditional: %w", name, common.ErrConfiguration)
		}
		angle := ps.Angle
		if angle == 0 {
			angle = 90
		}
		return Roll(name, angle*math.Pi/180, math.Copysign(1, dir), dur.Ticks()), nil
	case prefabs.PhaseTranslate:
		return Translate(name, dir*ps.Distance*opts.UnitSize, 0, dur), nil
	case prefabs.PhaseImpulse:
		// Upward is negative y on screen.
		return Impulse(name, 0, -ps.Speed*opts.UnitSize, dur), nil
	}
	return Phase{}, fmt.Errorf("unknown phase kind %q: %w", ps.Kind, common.ErrConfiguration)
}

func buildDuration(ps prefabs.PhaseSpec, opts Options, log *slog.Logger) (Duration, error) {
	ticks := common.SecondsToTicks(ps.Seconds, opts.TPS)
	if ps.Until == "" {
		return Fixed(ticks), nil
	}
	src, err := opts.Scripts(ps.Until)
	if err != nil {
		return Duration{}, fmt.Errorf("load condition %s: %w", ps.Until, err)
	}
	cond, err := NewScriptCondition(ps.Until, src, opts.UnitSize, log)
	if err != nil {
		return Duration{}, err
	}
	limit := common.SecondsToTicks(ps.MaxSeconds, opts.TPS)
	if limit <= 0 {
		limit = max(ticks, opts.TPS)
	}
	return Until(cond, limit), nil
}
