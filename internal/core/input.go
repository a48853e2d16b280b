package core

// Intent is a named player intent, abstracted from physical keys.
type Intent uint8

const (
	IntentNone Intent = iota
	IntentLeft
	IntentRight
	IntentUp
	IntentDown
	IntentFire
	IntentConfirm
	IntentCancel
	IntentNavigateUp
	IntentNavigateDown
	IntentBackspace
	IntentQuit
)

// String returns a human-readable name for the intent.
func (i Intent) String() string {
	switch i {
	case IntentNone:
		return "none"
	case IntentLeft:
		return "left"
	case IntentRight:
		return "right"
	case IntentUp:
		return "up"
	case IntentDown:
		return "down"
	case IntentFire:
		return "fire"
	case IntentConfirm:
		return "confirm"
	case IntentCancel:
		return "cancel"
	case IntentNavigateUp:
		return "navigate_up"
	case IntentNavigateDown:
		return "navigate_down"
	case IntentBackspace:
		return "backspace"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// IntentSet is a bit set of held intents.
type IntentSet uint16

// With returns the set with i added.
func (s IntentSet) With(i Intent) IntentSet {
	return s | 1<<i
}

// Has reports whether i is in the set.
func (s IntentSet) Has(i Intent) bool {
	return s&(1<<i) != 0
}

// Input is the per-tick input snapshot handed to the session.
type Input struct {
	// Held is the set of intents currently held down.
	Held IntentSet
	// Pressed is the queue of discrete presses since the last tick, in order.
	Pressed []Intent
	// Text holds printable characters typed since the last tick.
	Text []rune
}

// Holding reports whether intent i is held this tick.
func (in Input) Holding(i Intent) bool {
	return in.Held.Has(i)
}

// Steering reports whether any directional intent is held.
func (in Input) Steering() bool {
	return in.Held.Has(IntentLeft) || in.Held.Has(IntentRight) ||
		in.Held.Has(IntentUp) || in.Held.Has(IntentDown)
}

// Press appends a discrete press to the queue.
func (in *Input) Press(i Intent) {
	in.Pressed = append(in.Pressed, i)
}

// Hold marks i as held.
func (in *Input) Hold(i Intent) {
	in.Held = in.Held.With(i)
}

// Clone returns a deep copy of the snapshot.
func (in Input) Clone() Input {
	out := Input{Held: in.Held}
	if len(in.Pressed) > 0 {
		out.Pressed = append([]Intent(nil), in.Pressed...)
	}
	if len(in.Text) > 0 {
		out.Text = append([]rune(nil), in.Text...)
	}
	return out
}
