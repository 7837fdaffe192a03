package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/TanaroSch/hotkeyd/internal/chain"
	"github.com/TanaroSch/hotkeyd/internal/hotkey"
)

// Build parses every hotkey and assembles the chain forest. All invalid
// entries are reported together; nothing is returned unless every entry is
// valid.
func (c *Config) Build() (*chain.Forest, error) {
	b := chain.NewBuilder()
	var errs []error
	for i, h := range c.Hotkeys {
		if err := addHotkey(b, h); err != nil {
			errs = append(errs, fmt.Errorf("%s: hotkey #%d %q: %w", h.source, i+1, h.Chain, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	for _, w := range b.Warnings() {
		log.Printf("Warning: %s", w)
	}
	return b.Build(), nil
}

func addHotkey(b *chain.Builder, h HotkeyConfig) error {
	steps, err := hotkey.ParseChain(h.Chain)
	if err != nil {
		return err
	}

	// Pointer coordinates are only known when a motion chord dispatches.
	var allowed []chain.Placeholder
	if steps[len(steps)-1].Chord.Polarity == chain.Motion {
		allowed = chain.PointerPlaceholders
	}

	texts := h.CommandList()
	commands := make([]chain.Template, 0, len(texts))
	for _, text := range texts {
		t, err := chain.ParseTemplate(text, allowed...)
		if err != nil {
			return err
		}
		commands = append(commands, t)
	}
	return b.Add(steps, commands)
}
