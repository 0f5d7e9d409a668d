package focus

import "sort"

// Event is a keyboard lifecycle event.
type Event uint8

const (
	KeyboardDidHide Event = iota
)

// String returns the string representation of the Event.
func (e Event) String() string {
	switch e {
	case KeyboardDidHide:
		return "keyboardDidHide"
	default:
		return "unknown"
	}
}

type subscription struct {
	event Event
	fn    func()
}

// Notifier delivers keyboard events to explicitly registered callbacks.
// Each owner holds its own Notifier; there is no process-wide broadcast.
// It is confined to the UI goroutine.
type Notifier struct {
	subs map[uint64]subscription
	next uint64
}

// NewNotifier creates a Notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[uint64]subscription)}
}

// Subscribe registers fn for event and returns the function that removes the
// registration. Calling cancel more than once is harmless.
func (n *Notifier) Subscribe(event Event, fn func()) (cancel func()) {
	n.next++
	id := n.next
	n.subs[id] = subscription{event: event, fn: fn}
	return func() {
		delete(n.subs, id)
	}
}

// Post calls every callback registered for event in registration order.
// Callbacks may subscribe or cancel while the event is delivered; a callback
// canceled before its turn is skipped.
func (n *Notifier) Post(event Event) {
	ids := make([]uint64, 0, len(n.subs))
	for id, s := range n.subs {
		if s.event == event {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if s, ok := n.subs[id]; ok {
			s.fn()
		}
	}
}

// Len returns the number of live registrations.
func (n *Notifier) Len() int {
	return len(n.subs)
}
