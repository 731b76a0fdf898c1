package core

// Action represents a semantic input event, abstracted from physical key presses.
type Action int

const (
	ActionNone  Action = iota
	ActionJump         // Space - start, flap, restart depending on phase
	ActionQuit         // Q, Esc, Ctrl+C, window close
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame holds the input events delivered during one simulation tick,
// in arrival order. Order matters: two presses of Space in the same tick
// while paused first start the episode and then flap.
type InputFrame struct {
	events []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Push appends an event. ActionNone is dropped.
func (f *InputFrame) Push(a Action) {
	if a == ActionNone {
		return
	}
	f.events = append(f.events, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, e := range f.events {
		if e == a {
			return true
		}
	}
	return false
}

// Events returns the events in arrival order.
func (f InputFrame) Events() []Action {
	return f.events
}

// Len returns the number of pending events.
func (f InputFrame) Len() int {
	return len(f.events)
}

// Clear resets the frame for the next tick, keeping its capacity.
func (f *InputFrame) Clear() {
	f.events = f.events[:0]
}

// Clone creates a copy that does not share storage with f.
func (f InputFrame) Clone() InputFrame {
	if len(f.events) == 0 {
		return InputFrame{}
	}
	events := make([]Action, len(f.events))
	copy(events, f.events)
	return InputFrame{events: events}
}
