package interp

// clock is a tick counter with one-shot wakeups. Every wakeup carries the
// generation that scheduled it and is dropped if the generation has moved on
// by the time it is due.
type clock struct {
	now     int
	pending []wakeup
}

type wakeup struct {
	at  int
	gen uint64
	fn  func()
}

func (c *clock) after(ticks int, gen uint64, fn func()) {
	c.pending = append(c.pending, wakeup{at: c.now + max(0, ticks), gen: gen, fn: fn})
}

// tick advances one tick and runs the due wakeups of generation gen in the
// order they were scheduled. Wakeups scheduled while running are not run
// until a later tick.
func (c *clock) tick(gen func() uint64) {
	c.now++
	due := c.pending[:0:0]
	keep := c.pending[:0]
	for _, w := range c.pending {
		switch {
		case w.at <= c.now:
			due = append(due, w)
		default:
			keep = append(keep, w)
		}
	}
	c.pending = keep
	for _, w := range due {
		if w.gen != gen() {
			continue
		}
		w.fn()
	}
}

// drop forgets every pending wakeup.
func (c *clock) drop() {
	c.pending = nil
}
