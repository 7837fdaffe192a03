package grab

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TanaroSch/hotkeyd/internal/chain"
)

// Target is the unit the windowing system grabs: a key or button with an
// exact modifier combination. Press, release and motion chords on the same
// key and modifiers share one target.
type Target struct {
	Sym    chain.Keysym
	Button chain.Button
	Mods   chain.ModMask
}

// IsButton reports whether the target is a pointer button.
func (t Target) IsButton() bool {
	return t.Button != 0
}

func (t Target) String() string {
	if t.IsButton() {
		return fmt.Sprintf("button%d mods=0x%02x", t.Button, uint16(t.Mods))
	}
	return fmt.Sprintf("keysym 0x%04x mods=0x%02x", uint32(t.Sym), uint16(t.Mods))
}

// TargetOf returns the grab target a chord is delivered through.
func TargetOf(c chain.Chord) Target {
	return Target{Sym: c.Sym, Button: c.Button, Mods: c.Mods}
}

// Set maps each target to whether pointer motion must be reported while it
// is held.
type Set map[Target]bool

// FromChords collapses chords into grab targets. A motion chord marks its
// target for motion reporting.
func FromChords(chords []chain.Chord) Set {
	s := make(Set, len(chords))
	for _, c := range chords {
		t := TargetOf(c)
		s[t] = s[t] || c.Polarity == chain.Motion
	}
	return s
}

// ForMatcher returns the grab set for the matcher's current state: the chords
// that can advance it plus the escape chord. At Idle the matcher does not
// match escape, so it is replayed.
func ForMatcher(m *chain.Matcher) Set {
	s := FromChords(m.Expected())
	if _, ok := s[TargetOf(chain.Escape)]; !ok {
		s[TargetOf(chain.Escape)] = false
	}
	return s
}

// Equal reports whether both sets hold the same targets with the same motion flags.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for t, motion := range s {
		m, ok := o[t]
		if !ok || m != motion {
			return false
		}
	}
	return true
}

// Targets returns the targets in a stable order.
func (s Set) Targets() []Target {
	out := make([]Target, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Button != b.Button {
			return a.Button < b.Button
		}
		if a.Sym != b.Sym {
			return a.Sym < b.Sym
		}
		return a.Mods < b.Mods
	})
	return out
}

func (s Set) String() string {
	parts := make([]string, 0, len(s))
	for _, t := range s.Targets() {
		p := t.String()
		if s[t] {
			p += " +motion"
		}
		parts = append(parts, p)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
