//go:build !linux

package hotkey

import (
	"strconv"

	"github.com/TanaroSch/hotkeyd/internal/chain"
)

// Off Linux golang.design/x/hotkey uses native key codes, so the X11 values
// are spelled out: Latin-1 keysyms equal their character codes.

func addPlatformKeys(m map[string]chain.Keysym) {
	for c := 'a'; c <= 'z'; c++ {
		m[string(c)] = chain.Keysym(c)
	}
	for c := '0'; c <= '9'; c++ {
		m[string(c)] = chain.Keysym(c)
	}
	for i := 1; i <= 12; i++ {
		m["F"+strconv.Itoa(i)] = chain.Keysym(0xffbe + i - 1)
	}
}

var platformModifiers = map[string]chain.ModMask{
	"shift":       chain.ModShift,
	"ctrl":        chain.ModControl,
	"control":     chain.ModControl,
	"alt":         chain.Mod1,
	"meta":        chain.Mod1,
	"mod1":        chain.Mod1,
	"mod2":        chain.Mod2,
	"hyper":       chain.Mod3,
	"mod3":        chain.Mod3,
	"super":       chain.Mod4,
	"mod4":        chain.Mod4,
	"mod5":        chain.Mod5,
	"mode_switch": chain.Mod5,
}
