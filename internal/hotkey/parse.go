package hotkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/TanaroSch/hotkeyd/internal/chain"
)

var (
	ErrEmptyStep        = errors.New("empty chord")
	ErrUnknownKey       = errors.New("unsupported key")
	ErrUnknownModifier  = errors.New("unsupported modifier")
	ErrMotionNeedButton = errors.New("motion prefix '!' requires a button")
)

const maxButton = 24

// ParseChain converts a chain such as "super + w ; shift + a" into its steps.
// Steps are separated by ';', keys and modifiers within a step by '+'.
// A key prefixed with '@' matches on release, a button prefixed with '!'
// matches pointer motion while that button is held.
func ParseChain(text string) ([]chain.Step, error) {
	parts := strings.Split(text, ";")
	steps := make([]chain.Step, 0, len(parts))
	for _, part := range parts {
		chord, err := ParseChord(part)
		if err != nil {
			return nil, fmt.Errorf("failed to parse chain '%s': %w", text, err)
		}
		steps = append(steps, chain.Step{Chord: chord, Label: normalizeLabel(part)})
	}
	return steps, nil
}

// ParseChord converts a single step (e.g., "ctrl + alt + v") into a chord.
func ParseChord(step string) (chain.Chord, error) {
	parts := strings.Split(step, "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// Get the key (last part)
	keyStr := parts[len(parts)-1]
	if keyStr == "" {
		return chain.Chord{}, fmt.Errorf("%w in '%s'", ErrEmptyStep, strings.TrimSpace(step))
	}

	// Parse modifiers (all parts except the last)
	var mods chain.ModMask
	for _, part := range parts[:len(parts)-1] {
		mask, ok := platformModifiers[strings.ToLower(part)]
		if !ok {
			return chain.Chord{}, fmt.Errorf("%w: %s", ErrUnknownModifier, part)
		}
		mods |= mask
	}

	pol := chain.Press
	switch keyStr[0] {
	case '@':
		pol = chain.Release
		keyStr = keyStr[1:]
	case '!':
		pol = chain.Motion
		keyStr = keyStr[1:]
	}

	if button, ok := parseButton(keyStr); ok {
		return chain.ButtonChord(button, mods, pol), nil
	}
	if pol == chain.Motion {
		return chain.Chord{}, fmt.Errorf("%w: %s", ErrMotionNeedButton, keyStr)
	}

	sym, ok := LookupKeysym(keyStr)
	if !ok {
		sym, ok = parseHexKeysym(keyStr)
	}
	if !ok {
		return chain.Chord{}, fmt.Errorf("%w: %s", ErrUnknownKey, keyStr)
	}
	return chain.KeyChord(sym, mods, pol), nil
}

func parseButton(s string) (chain.Button, bool) {
	rest, ok := strings.CutPrefix(strings.ToLower(s), "button")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > maxButton {
		return 0, false
	}
	return chain.Button(n), true
}

func parseHexKeysym(s string) (chain.Keysym, bool) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return 0, false
	}
	v, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return chain.Keysym(v), true
}

// normalizeLabel collapses whitespace around '+' so status lines read the
// same regardless of how the chain was typed.
func normalizeLabel(step string) string {
	parts := strings.Split(step, "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, " + ")
}
