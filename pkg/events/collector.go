package events

import "slices"

// EventCollector buffers the events an aggregate raises until they are
// persisted or published. The zero value is ready to use.
type EventCollector struct {
	pending []DomainEvent
}

// Record appends events in the order they were raised.
func (c *EventCollector) Record(evts ...DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// Events returns a copy of the pending events and leaves the buffer intact.
func (c *EventCollector) Events() []DomainEvent {
	return slices.Clone(c.pending)
}

// ClearEvents returns the pending events and empties the buffer.
func (c *EventCollector) ClearEvents() []DomainEvent {
	drained := c.pending
	c.pending = nil
	return drained
}
