package hotkey

import (
	"strings"

	"github.com/TanaroSch/hotkeyd/internal/chain"
)

// KeyMap maps keysym names, as written in hotkey chains, to X11 keysyms.
// Letters, digits and the basic function keys are filled in per platform.
var KeyMap = map[string]chain.Keysym{
	// Editing and navigation
	"BackSpace": 0xff08,
	"Tab":       0xff09,
	"Return":    0xff0d,
	"Pause":     0xff13,
	"Escape":    0xff1b,
	"Delete":    0xffff,
	"Home":      0xff50,
	"Left":      0xff51,
	"Up":        0xff52,
	"Right":     0xff53,
	"Down":      0xff54,
	"Prior":     0xff55,
	"Page_Up":   0xff55,
	"Next":      0xff56,
	"Page_Down": 0xff56,
	"End":       0xff57,
	"Print":     0xff61,
	"Insert":    0xff63,
	"Menu":      0xff67,
	"space":     0x0020,

	// Punctuation
	"apostrophe":   0x0027,
	"comma":        0x002c,
	"minus":        0x002d,
	"period":       0x002e,
	"slash":        0x002f,
	"semicolon":    0x003b,
	"equal":        0x003d,
	"plus":         0x002b,
	"bracketleft":  0x005b,
	"backslash":    0x005c,
	"bracketright": 0x005d,
	"grave":        0x0060,

	// Function keys above F12
	"F13": 0xffca,
	"F14": 0xffcb,
	"F15": 0xffcc,
	"F16": 0xffcd,
	"F17": 0xffce,
	"F18": 0xffcf,
	"F19": 0xffd0,
	"F20": 0xffd1,

	// Keypad
	"KP_Enter":    0xff8d,
	"KP_Add":      0xffab,
	"KP_Subtract": 0xffad,
	"KP_Multiply": 0xffaa,
	"KP_Divide":   0xffaf,

	// Media keys
	"XF86MonBrightnessUp":   0x1008ff02,
	"XF86MonBrightnessDown": 0x1008ff03,
	"XF86AudioLowerVolume":  0x1008ff11,
	"XF86AudioMute":         0x1008ff12,
	"XF86AudioRaiseVolume":  0x1008ff13,
	"XF86AudioPlay":         0x1008ff14,
	"XF86AudioStop":         0x1008ff15,
	"XF86AudioPrev":         0x1008ff16,
	"XF86AudioNext":         0x1008ff17,
	"XF86AudioMicMute":      0x1008ffb2,
}

// foldedKeyMap indexes multi-letter names case-insensitively ("return").
var foldedKeyMap map[string]chain.Keysym

func init() {
	addPlatformKeys(KeyMap)
	foldedKeyMap = make(map[string]chain.Keysym, len(KeyMap))
	for name, sym := range KeyMap {
		if len(name) > 1 {
			foldedKeyMap[strings.ToLower(name)] = sym
		}
	}
}

// LookupKeysym resolves a keysym name. Single characters are case-sensitive;
// longer names fall back to a case-insensitive match.
func LookupKeysym(name string) (chain.Keysym, bool) {
	if sym, ok := KeyMap[name]; ok {
		return sym, true
	}
	if len(name) > 1 {
		sym, ok := foldedKeyMap[strings.ToLower(name)]
		return sym, ok
	}
	return 0, false
}
