//go:build linux

package hotkey

import (
	"strconv"

	"github.com/TanaroSch/hotkeyd/internal/chain"
	xhotkey "golang.design/x/hotkey"
)

// On Linux golang.design/x/hotkey defines its keys as X11 keysyms and its
// modifiers as X11 state masks (see X11/keysymdef.h and X11/X.h).

func addPlatformKeys(m map[string]chain.Keysym) {
	letters := []xhotkey.Key{
		xhotkey.KeyA, xhotkey.KeyB, xhotkey.KeyC, xhotkey.KeyD, xhotkey.KeyE,
		xhotkey.KeyF, xhotkey.KeyG, xhotkey.KeyH, xhotkey.KeyI, xhotkey.KeyJ,
		xhotkey.KeyK, xhotkey.KeyL, xhotkey.KeyM, xhotkey.KeyN, xhotkey.KeyO,
		xhotkey.KeyP, xhotkey.KeyQ, xhotkey.KeyR, xhotkey.KeyS, xhotkey.KeyT,
		xhotkey.KeyU, xhotkey.KeyV, xhotkey.KeyW, xhotkey.KeyX, xhotkey.KeyY,
		xhotkey.KeyZ,
	}
	for i, k := range letters {
		m[string(rune('a'+i))] = chain.Keysym(k)
	}

	digits := []xhotkey.Key{
		xhotkey.Key0, xhotkey.Key1, xhotkey.Key2, xhotkey.Key3, xhotkey.Key4,
		xhotkey.Key5, xhotkey.Key6, xhotkey.Key7, xhotkey.Key8, xhotkey.Key9,
	}
	for i, k := range digits {
		m[string(rune('0'+i))] = chain.Keysym(k)
	}

	fkeys := []xhotkey.Key{
		xhotkey.KeyF1, xhotkey.KeyF2, xhotkey.KeyF3, xhotkey.KeyF4,
		xhotkey.KeyF5, xhotkey.KeyF6, xhotkey.KeyF7, xhotkey.KeyF8,
		xhotkey.KeyF9, xhotkey.KeyF10, xhotkey.KeyF11, xhotkey.KeyF12,
	}
	for i, k := range fkeys {
		m["F"+strconv.Itoa(i+1)] = chain.Keysym(k)
	}

	m["space"] = chain.Keysym(xhotkey.KeySpace)
	m["Return"] = chain.Keysym(xhotkey.KeyReturn)
	m["Escape"] = chain.Keysym(xhotkey.KeyEscape)
}

var platformModifiers = map[string]chain.ModMask{
	"shift":   chain.ModMask(xhotkey.ModShift),
	"ctrl":    chain.ModMask(xhotkey.ModCtrl),
	"control": chain.ModMask(xhotkey.ModCtrl),
	"alt":     chain.ModMask(xhotkey.Mod1),
	"meta":    chain.ModMask(xhotkey.Mod1),
	"mod1":    chain.ModMask(xhotkey.Mod1),
	"mod2":    chain.ModMask(xhotkey.Mod2),
	"hyper":   chain.ModMask(xhotkey.Mod3),
	"mod3":    chain.ModMask(xhotkey.Mod3),
	"super":   chain.ModMask(xhotkey.Mod4),
	"mod4":    chain.ModMask(xhotkey.Mod4),
	"mod5":    chain.ModMask(xhotkey.Mod5),

	"mode_switch": chain.ModMask(xhotkey.Mod5),
}
