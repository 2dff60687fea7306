package action

// Condition decides whether an open-ended phase has finished. tick is the
// number of ticks already spent in the phase.
type Condition interface {
	Done(b Body, tick int) bool
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(b Body, tick int) bool

func (f ConditionFunc) Done(b Body, tick int) bool { return f(b, tick) }

// Duration is either a fixed number of ticks or a condition bounded by a
// tick limit.
type Duration struct {
	ticks int
	until Condition
}

// Fixed lasts exactly ticks ticks. Values below one are raised to one.
func Fixed(ticks int) Duration {
	return Duration{ticks: max(1, ticks)}
}

// Until lasts until cond reports done, or maxTicks ticks, whichever is first.
func Until(cond Condition, maxTicks int) Duration {
	return Duration{ticks: max(1, maxTicks), until: cond}
}

// Ticks is the fixed length, or the upper bound for conditional phases.
func (d Duration) Ticks() int { return d.ticks }

func (d Duration) Conditional() bool { return d.until != nil }

// Done reports whether a phase that has run elapsed ticks is over.
func (d Duration) Done(b Body, elapsed int) bool {
	if elapsed >= d.ticks {
		return true
	}
	if d.until != nil {
		return d.until.Done(b, elapsed)
	}
	return false
}
