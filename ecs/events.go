package ecs

// OverlapKind identifies sensor overlap transitions.
type OverlapKind uint8

const (
	OverlapBegin OverlapKind = iota + 1
	OverlapEnd
)

func (k OverlapKind) String() string {
	switch k {
	case OverlapBegin:
		return "begin"
	case OverlapEnd:
		return "end"
	}
	return "unknown"
}

// OverlapEvent is emitted when a body starts or stops overlapping a sensor.
type OverlapEvent struct {
	Sensor Entity
	Other  Entity
	Kind   OverlapKind
}

// EventQueue is a FIFO of overlap events for one world tick.
type EventQueue struct {
	items []OverlapEvent
}

func (q *EventQueue) Push(evt OverlapEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []OverlapEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
