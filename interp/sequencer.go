// Package interp runs a program snapshot against the actor, one instruction
// at a time, on the physics tick clock.
package interp

import (
	"fmt"
	"log/slog"

	"github.com/milk9111/cmdstack/action"
	"github.com/milk9111/cmdstack/common"
	"github.com/milk9111/cmdstack/logs"
	"github.com/milk9111/cmdstack/program"
	"github.com/milk9111/cmdstack/win"
)

// Actor is the physical body a program drives.
type Actor interface {
	action.Body
	// Reset returns the actor to its spawn pose at rest.
	Reset()
}

// Goal reports whether the actor currently overlaps the goal.
type Goal interface {
	Inside() bool
}

// Resolver maps an instruction to its action.
type Resolver interface {
	Resolve(tok program.Instruction) action.Descriptor
}

type State uint8

const (
	Idle State = iota
	Settling
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Settling:
		return "settling"
	case Running:
		return "running"
	case Completed:
		return "completed"
	}
	return "idle"
}

const defaultSettleSeconds = 0.5

type Options struct {
	// SettleTicks is the pause between reset and the first instruction.
	// Zero uses half a second.
	SettleTicks int
	// OnComplete is called once per finished run with the sampled outcome.
	OnComplete func(win.Outcome)
	Log        *slog.Logger
}

// Sequencer executes programs. It is driven entirely by Tick and is not safe
// for concurrent use.
type Sequencer struct {
	log        *slog.Logger
	actions    Resolver
	goal       Goal
	actor      Actor
	slots      []*program.Slot
	settle     int
	onComplete func(win.Outcome)

	clock   clock
	gen     uint64
	state   State
	index   int
	outcome win.Outcome
	prog    program.Program
}

func NewSequencer(actions Resolver, goal Goal, opts Options) *Sequencer {
	settle := opts.SettleTicks
	if settle <= 0 {
		settle = common.SecondsToTicks(defaultSettleSeconds, common.TPS)
	}
	return &Sequencer{
		log:        logs.Or(opts.Log).With("component", "sequencer"),
		actions:    actions,
		goal:       goal,
		settle:     settle,
		onComplete: opts.OnComplete,
		index:      -1,
	}
}

func (s *Sequencer) State() State { return s.state }

// Index is the slot being executed, or -1 outside of Running.
func (s *Sequencer) Index() int { return s.index }

// Outcome is the verdict of the last completed run, Pending otherwise.
func (s *Sequencer) Outcome() win.Outcome { return s.outcome }

// Generation changes on every play and cancel.
func (s *Sequencer) Generation() uint64 { return s.gen }

// SetActor attaches the actor of a freshly built scene. Any run in flight
// is cancelled.
func (s *Sequencer) SetActor(a Actor) {
	s.Cancel()
	s.actor = a
}

// SetSlots replaces the slots whose highlights follow execution.
func (s *Sequencer) SetSlots(slots []*program.Slot) {
	s.Cancel()
	s.slots = slots
}

// Play resets the actor and runs p from the first slot after the settle
// delay. A run already in flight is abandoned.
func (s *Sequencer) Play(p program.Program) error {
	if s.actor == nil {
		return fmt.Errorf("interp: play: no actor attached: %w", common.ErrConfiguration)
	}
	s.invalidate()
	s.actor.Reset()
	s.prog = p
	s.state = Settling
	s.log.Info("run started", "slots", p.Len(), "generation", s.gen)

	gen := s.gen
	s.clock.after(s.settle, gen, func() { s.startSlot(gen, 0) })
	return nil
}

// Cancel abandons the current run and clears highlights.
func (s *Sequencer) Cancel() {
	if s.state == Settling || s.state == Running {
		s.log.Info("run cancelled", "index", s.index, "generation", s.gen)
	}
	s.invalidate()
	s.state = Idle
}

// Tick advances the sequencer by one physics tick. Call it before stepping
// the physics space.
func (s *Sequencer) Tick() {
	s.clock.tick(s.Generation)
}

func (s *Sequencer) invalidate() {
	s.gen++
	s.clock.drop()
	s.index = -1
	s.outcome = win.Pending
	for _, slot := range s.slots {
		slot.SetHighlight(false)
	}
}

func (s *Sequencer) highlight(i int, on bool) {
	if i >= 0 && i < len(s.slots) {
		s.slots[i].SetHighlight(on)
	}
}

func (s *Sequencer) startSlot(gen uint64, i int) {
	if i >= s.prog.Len() {
		s.complete()
		return
	}
	s.state = Running
	s.index = i
	s.highlight(i, true)

	tok := s.prog.At(i)
	d := s.actions.Resolve(tok)
	s.log.Debug("instruction started", "index", i, "instruction", tok.String(), "ticks", d.TotalTicks())
	s.runPhase(gen, i, d, 0, 0)
}

// runPhase applies one tick of phase p and schedules the next check. The
// check happens a tick later so conditions see the stepped physics.
func (s *Sequencer) runPhase(gen uint64, i int, d action.Descriptor, p, elapsed int) {
	if p >= len(d.Phases) {
		s.highlight(i, false)
		s.startSlot(gen, i+1)
		return
	}
	phase := d.Phases[p]
	if elapsed == 0 && phase.Start != nil {
		phase.Start(s.actor)
	}
	if phase.Step != nil {
		phase.Step(s.actor, elapsed)
	}
	elapsed++
	s.clock.after(1, gen, func() {
		if phase.Duration.Done(s.actor, elapsed) {
			s.runPhase(gen, i, d, p+1, 0)
			return
		}
		s.runPhase(gen, i, d, p, elapsed)
	})
}

func (s *Sequencer) complete() {
	s.index = -1
	s.outcome = win.Failure
	if s.goal != nil && s.goal.Inside() {
		s.outcome = win.Success
	}
	s.state = Completed
	s.log.Info("run completed", "outcome", s.outcome.String(), "generation", s.gen)
	if s.onComplete != nil {
		s.onComplete(s.outcome)
	}
}
