package chain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownPlaceholder is returned when a command names a placeholder that is
// not available for its hotkey.
var ErrUnknownPlaceholder = errors.New("unknown placeholder")

// Placeholder names a value substituted into a command at dispatch time.
type Placeholder string

const (
	PointerX Placeholder = "x"
	PointerY Placeholder = "y"
)

// PointerPlaceholders is the placeholder set available to motion hotkeys.
var PointerPlaceholders = []Placeholder{PointerX, PointerY}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

type segment struct {
	literal string
	hole    Placeholder
}

// Template is a command string validated against its placeholder set at load time.
type Template struct {
	text     string
	segments []segment
}

// ParseTemplate splits text on {{name}} placeholders. Every placeholder must be
// in allowed.
func ParseTemplate(text string, allowed ...Placeholder) (Template, error) {
	t := Template{text: text}
	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		name := Placeholder(text[m[2]:m[3]])
		if !containsPlaceholder(allowed, name) {
			return Template{}, fmt.Errorf("%w {{%s}} in %q", ErrUnknownPlaceholder, name, text)
		}
		if m[0] > last {
			t.segments = append(t.segments, segment{literal: text[last:m[0]]})
		}
		t.segments = append(t.segments, segment{hole: name})
		last = m[1]
	}
	if last < len(text) {
		t.segments = append(t.segments, segment{literal: text[last:]})
	}
	return t, nil
}

// MustTemplate is ParseTemplate for literals known to be valid.
func MustTemplate(text string, allowed ...Placeholder) Template {
	t, err := ParseTemplate(text, allowed...)
	if err != nil {
		panic(err)
	}
	return t
}

func containsPlaceholder(set []Placeholder, p Placeholder) bool {
	for _, s := range set {
		if s == p {
			return true
		}
	}
	return false
}

// Text returns the template source.
func (t Template) Text() string {
	return t.text
}

// Render substitutes the pointer coordinates of ev.
func (t Template) Render(ev Event) string {
	if len(t.segments) == 1 && t.segments[0].hole == "" {
		return t.segments[0].literal
	}
	var b strings.Builder
	for _, s := range t.segments {
		switch s.hole {
		case "":
			b.WriteString(s.literal)
		case PointerX:
			b.WriteString(strconv.Itoa(int(ev.RootX)))
		case PointerY:
			b.WriteString(strconv.Itoa(int(ev.RootY)))
		}
	}
	return b.String()
}
