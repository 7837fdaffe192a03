package chain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyChain     = errors.New("chain has no chords")
	ErrNoCommand      = errors.New("hotkey has no command")
	ErrInvalidChord   = errors.New("invalid chord")
	ErrDuplicateChain = errors.New("duplicate chain")
	ErrPrefixConflict = errors.New("chain is a prefix of another chain")
)

// Step is a chord together with the text it was configured as.
type Step struct {
	Chord Chord
	Label string
}

// Hotkey is a chain plus its cycle of commands. The cycle cursor belongs to
// this hotkey alone.
type Hotkey struct {
	Steps    []Step
	Commands []Template
	cursor   int
}

// Next returns the command at the cycle cursor and its index, then advances
// the cursor.
func (h *Hotkey) Next() (Template, int) {
	i := h.cursor
	h.cursor = (h.cursor + 1) % len(h.Commands)
	return h.Commands[i], i
}

// Cursor returns the index of the command the next match will dispatch.
func (h *Hotkey) Cursor() int {
	return h.cursor
}

// SetCursor moves the cycle cursor, wrapping out of range values.
func (h *Hotkey) SetCursor(i int) {
	n := len(h.Commands)
	h.cursor = ((i % n) + n) % n
}

// Label renders the chain as configured, steps joined by " ; ".
func (h *Hotkey) Label() string {
	return joinLabels(h.Steps)
}

// Signature identifies a hotkey by its chain text and command cycle.
func (h *Hotkey) Signature() string {
	cmds := make([]string, len(h.Commands))
	for i, c := range h.Commands {
		cmds[i] = c.Text()
	}
	return h.Label() + " => " + strings.Join(cmds, " | ")
}

func joinLabels(steps []Step) string {
	labels := make([]string, len(steps))
	for i, s := range steps {
		labels[i] = s.Label
	}
	return strings.Join(labels, " ; ")
}

const noHotkey = -1

type node struct {
	step     Step
	parent   int
	depth    int
	children []int
	hotkey   int
}

// Forest is the set of hotkeys organized as a trie over chords, stored in a
// flat arena. It is immutable apart from the cycle cursors and is replaced
// wholesale on reload.
type Forest struct {
	nodes   []node
	roots   []int
	hotkeys []*Hotkey
}

// Hotkeys returns the hotkeys in configuration order.
func (f *Forest) Hotkeys() []*Hotkey {
	if f == nil {
		return nil
	}
	return f.hotkeys
}

// Len returns the number of hotkeys.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.hotkeys)
}

// RootChords returns the first chord of every chain, deduplicated.
func (f *Forest) RootChords() []Chord {
	if f == nil {
		return nil
	}
	return f.chordsOf(f.roots)
}

func (f *Forest) chordsOf(ids []int) []Chord {
	out := make([]Chord, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.nodes[id].step.Chord)
	}
	return out
}

// children returns the node ids reachable one step below id, or the roots for
// id < 0.
func (f *Forest) children(id int) []int {
	if id < 0 {
		return f.roots
	}
	return f.nodes[id].children
}

// label renders the path from a root to id.
func (f *Forest) label(id int) string {
	var steps []Step
	for ; id >= 0; id = f.nodes[id].parent {
		steps = append(steps, f.nodes[id].step)
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return joinLabels(steps)
}

// Lines returns one line per hotkey, used for reload summaries.
func (f *Forest) Lines() []string {
	lines := make([]string, 0, f.Len())
	for _, hk := range f.Hotkeys() {
		lines = append(lines, hk.Signature())
	}
	return lines
}

// CarryCursors copies cycle cursors from old for every hotkey whose chain
// and command cycle are unchanged, and returns how many were carried.
func (f *Forest) CarryCursors(old *Forest) int {
	cursors := make(map[string]int, old.Len())
	for _, hk := range old.Hotkeys() {
		cursors[hk.Signature()] = hk.cursor
	}
	n := 0
	for _, hk := range f.Hotkeys() {
		if c, ok := cursors[hk.Signature()]; ok {
			hk.SetCursor(c)
			n++
		}
	}
	return n
}

// Builder assembles a Forest. A failed Add leaves the builder unchanged.
type Builder struct {
	f        *Forest
	warnings []string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{f: &Forest{}}
}

// Add inserts a hotkey.
func (b *Builder) Add(steps []Step, commands []Template) error {
	if len(steps) == 0 {
		return ErrEmptyChain
	}
	if len(commands) == 0 {
		return fmt.Errorf("%w: %s", ErrNoCommand, joinLabels(steps))
	}
	for _, s := range steps {
		if !s.Chord.Valid() {
			return fmt.Errorf("%w %q (%v)", ErrInvalidChord, s.Label, s.Chord)
		}
	}

	// Walk the shared prefix first so that nothing is inserted on error.
	parent := -1
	shared := 0
	for shared < len(steps) {
		id, ok := b.find(parent, steps[shared].Chord)
		if !ok {
			break
		}
		n := b.f.nodes[id]
		last := shared == len(steps)-1
		switch {
		case last && n.hotkey != noHotkey:
			return fmt.Errorf("%w: %s", ErrDuplicateChain, joinLabels(steps))
		case last:
			return fmt.Errorf("%w: %s prefixes %s", ErrPrefixConflict, joinLabels(steps), b.f.label(firstLeaf(b.f, id)))
		case n.hotkey != noHotkey:
			return fmt.Errorf("%w: %s prefixes %s", ErrPrefixConflict, b.f.label(id), joinLabels(steps))
		}
		parent = id
		shared++
	}

	hk := &Hotkey{
		Steps:    append([]Step(nil), steps...),
		Commands: append([]Template(nil), commands...),
	}
	for i := shared; i < len(steps); i++ {
		b.checkSuperset(parent, steps[i])
		id := len(b.f.nodes)
		n := node{step: steps[i], parent: parent, depth: i + 1, hotkey: noHotkey}
		if i == len(steps)-1 {
			n.hotkey = len(b.f.hotkeys)
		}
		b.f.nodes = append(b.f.nodes, n)
		if parent < 0 {
			b.f.roots = append(b.f.roots, id)
		} else {
			b.f.nodes[parent].children = append(b.f.nodes[parent].children, id)
		}
		parent = id
	}
	b.f.hotkeys = append(b.f.hotkeys, hk)
	return nil
}

func firstLeaf(f *Forest, id int) int {
	for f.nodes[id].hotkey == noHotkey && len(f.nodes[id].children) > 0 {
		id = f.nodes[id].children[0]
	}
	return id
}

func (b *Builder) find(parent int, c Chord) (int, bool) {
	for _, id := range b.f.children(parent) {
		if b.f.nodes[id].step.Chord == c {
			return id, true
		}
	}
	return 0, false
}

// checkSuperset records a warning when a sibling differs from s only by a
// strict modifier subset or superset.
func (b *Builder) checkSuperset(parent int, s Step) {
	for _, id := range b.f.children(parent) {
		o := b.f.nodes[id].step
		if o.Chord.Sym != s.Chord.Sym || o.Chord.Button != s.Chord.Button || o.Chord.Polarity != s.Chord.Polarity {
			continue
		}
		a, c := o.Chord.Mods, s.Chord.Mods
		if a != c && (a&c == a || a&c == c) {
			prefix := ""
			if parent >= 0 {
				prefix = b.f.label(parent) + " ; "
			}
			b.warnings = append(b.warnings, fmt.Sprintf("ambiguous modifiers: %s%s and %s%s", prefix, o.Label, prefix, s.Label))
		}
	}
}

// Warnings returns non-fatal configuration ambiguities found so far.
func (b *Builder) Warnings() []string {
	return b.warnings
}

// Build returns the forest. The builder must not be used afterwards.
func (b *Builder) Build() *Forest {
	f := b.f
	b.f = nil
	return f
}
