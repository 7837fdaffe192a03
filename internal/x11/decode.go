package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/TanaroSch/hotkeyd/internal/chain"
)

// InputKind tells what an Input carries.
type InputKind uint8

const (
	// InputChord is a normalized key, button or motion event.
	InputChord InputKind = iota
	// InputMapping reports a keyboard, modifier or pointer mapping change.
	InputMapping
)

// Scope is the part of the input mapping a MappingNotify changed.
type Scope uint8

const (
	ScopeKeyboard Scope = iota
	ScopeModifier
	ScopePointer
)

func (s Scope) String() string {
	switch s {
	case ScopeModifier:
		return "modifier"
	case ScopePointer:
		return "pointer"
	default:
		return "keyboard"
	}
}

// Input is one event read from the X server, already normalized.
type Input struct {
	Kind  InputKind
	Event chain.Event
	Scope Scope
}

// Frozen reports whether the server froze a device for this input, i.e.
// whether it must be answered with an AllowEvents request.
func (in Input) Frozen() bool {
	return in.Kind == InputChord && in.Event.Chord.Polarity != chain.Motion
}

// decode normalizes an X event against km: keycodes resolve to their
// first-column keysym, lock modifiers are stripped and motion events are keyed
// on the lowest held button. ok is false for events the daemon does not use.
func decode(ev xgb.Event, km *Keymap) (in Input, ok bool) {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return keyInput(km, e.Detail, e.State, chain.Press, e.Time, e.RootX, e.RootY), true
	case xproto.KeyReleaseEvent:
		return keyInput(km, e.Detail, e.State, chain.Release, e.Time, e.RootX, e.RootY), true
	case xproto.ButtonPressEvent:
		return buttonInput(km, e.Detail, e.State, chain.Press, e.Time, e.RootX, e.RootY), true
	case xproto.ButtonReleaseEvent:
		return buttonInput(km, e.Detail, e.State, chain.Release, e.Time, e.RootX, e.RootY), true
	case xproto.MotionNotifyEvent:
		button := chain.MotionButton(e.State >> 8)
		c := chain.ButtonChord(button, km.Mods(e.State), chain.Motion)
		return chordInput(c, chain.Pointer, e.Time, e.RootX, e.RootY), true
	case xproto.MappingNotifyEvent:
		scope := ScopeKeyboard
		switch e.Request {
		case xproto.MappingModifier:
			scope = ScopeModifier
		case xproto.MappingPointer:
			scope = ScopePointer
		}
		return Input{Kind: InputMapping, Scope: scope}, true
	}
	return Input{}, false
}

// keyInput reports keycodes without a keysym too (Sym 0): they never match,
// but the frozen keyboard still has to be released.
func keyInput(km *Keymap, code xproto.Keycode, state uint16, pol chain.Polarity, t xproto.Timestamp, x, y int16) Input {
	c := chain.KeyChord(km.Keysym(code), km.Mods(state), pol)
	return chordInput(c, chain.Keyboard, t, x, y)
}

func buttonInput(km *Keymap, b xproto.Button, state uint16, pol chain.Polarity, t xproto.Timestamp, x, y int16) Input {
	c := chain.ButtonChord(chain.Button(b), km.Mods(state), pol)
	return chordInput(c, chain.Pointer, t, x, y)
}

func chordInput(c chain.Chord, d chain.Device, t xproto.Timestamp, x, y int16) Input {
	return Input{
		Kind:  InputChord,
		Event: chain.Event{Chord: c, Device: d, Time: uint32(t), RootX: x, RootY: y},
	}
}
