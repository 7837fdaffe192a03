package chain

import "fmt"

// Keysym is an X11 keysym value.
type Keysym uint32

// Button is a pointer button number (1-based). Zero means no button.
type Button uint8

// ModMask is an X11 modifier state field with lock masks already removed.
type ModMask uint16

// Modifier bits as used by the X protocol core state field.
const (
	ModShift   ModMask = 1 << 0
	ModLock    ModMask = 1 << 1
	ModControl ModMask = 1 << 2
	Mod1       ModMask = 1 << 3
	Mod2       ModMask = 1 << 4
	Mod3       ModMask = 1 << 5
	Mod4       ModMask = 1 << 6
	Mod5       ModMask = 1 << 7

	// ModStateField covers the eight modifier bits; pointer button bits are above it.
	ModStateField ModMask = 0x00ff
)

// EscapeKeysym is XK_Escape.
const EscapeKeysym Keysym = 0xff1b

// Polarity tells which transition of a key or button a chord describes.
type Polarity uint8

const (
	Press Polarity = iota
	Release
	Motion
)

func (p Polarity) String() string {
	switch p {
	case Press:
		return "press"
	case Release:
		return "release"
	case Motion:
		return "motion"
	default:
		return fmt.Sprintf("Polarity(%d)", uint8(p))
	}
}

// Chord is one key or button descriptor. Exactly one of Sym and Button is set.
// Chords are compared with ==.
type Chord struct {
	Sym      Keysym
	Button   Button
	Mods     ModMask
	Polarity Polarity
}

// KeyChord builds a keyboard chord.
func KeyChord(sym Keysym, mods ModMask, pol Polarity) Chord {
	return Chord{Sym: sym, Mods: mods, Polarity: pol}
}

// ButtonChord builds a pointer chord.
func ButtonChord(button Button, mods ModMask, pol Polarity) Chord {
	return Chord{Button: button, Mods: mods, Polarity: pol}
}

// Escape is the implicit chord that aborts an in-progress chain.
var Escape = KeyChord(EscapeKeysym, 0, Press)

// IsButton reports whether the chord is pointer originated.
func (c Chord) IsButton() bool {
	return c.Button != 0
}

// Valid reports whether the chord identifies exactly one key or button and a
// motion polarity is only used with a button.
func (c Chord) Valid() bool {
	if (c.Sym == 0) == (c.Button == 0) {
		return false
	}
	if c.Polarity == Motion && c.Button == 0 {
		return false
	}
	return c.Polarity <= Motion
}

func (c Chord) String() string {
	var id string
	if c.Button != 0 {
		id = fmt.Sprintf("button%d", c.Button)
	} else {
		id = fmt.Sprintf("0x%04x", uint32(c.Sym))
	}
	return fmt.Sprintf("%s mods=0x%02x %s", id, uint16(c.Mods), c.Polarity)
}

// Device tells which X input subsystem an event was frozen on.
type Device uint8

const (
	Keyboard Device = iota
	Pointer
)

func (d Device) String() string {
	if d == Pointer {
		return "pointer"
	}
	return "keyboard"
}

// Event is a normalized input event: symbol resolved, lock modifiers stripped.
type Event struct {
	Chord  Chord
	Device Device
	// Time is the X server timestamp in milliseconds.
	Time uint32
	// RootX and RootY are the pointer coordinates relative to the root window.
	RootX, RootY int16
}
