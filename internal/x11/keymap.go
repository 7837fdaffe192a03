package x11

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/TanaroSch/hotkeyd/internal/chain"
)

// Keysyms whose modifier bits are treated as lock state.
const (
	numLockKeysym    chain.Keysym = 0xff7f
	scrollLockKeysym chain.Keysym = 0xff14
)

// Keymap is a snapshot of the server's keyboard and modifier mappings. It is
// rebuilt whenever a MappingNotify arrives.
type Keymap struct {
	min     xproto.Keycode
	perCode int
	syms    []xproto.Keysym

	// Lock masks stripped from every event and added to every grab.
	CapsLock, NumLock, ScrollLock uint16
}

// NewKeymap builds a keymap from GetKeyboardMapping and GetModifierMapping
// replies. modCodes holds perMod keycodes for each of the eight modifiers.
func NewKeymap(min xproto.Keycode, perCode int, syms []xproto.Keysym, perMod int, modCodes []xproto.Keycode) *Keymap {
	k := &Keymap{min: min, perCode: perCode, syms: syms, CapsLock: xproto.ModMaskLock}
	k.NumLock = k.modMaskFor(numLockKeysym, perMod, modCodes)
	k.ScrollLock = k.modMaskFor(scrollLockKeysym, perMod, modCodes)
	return k
}

func (k *Keymap) codeCount() int {
	if k.perCode == 0 {
		return 0
	}
	return len(k.syms) / k.perCode
}

// Keysym returns the first-column keysym of code, or 0.
func (k *Keymap) Keysym(code xproto.Keycode) chain.Keysym {
	i := int(code) - int(k.min)
	if code < k.min || i >= k.codeCount() {
		return 0
	}
	return chain.Keysym(k.syms[i*k.perCode])
}

// Keycodes returns every keycode that produces sym in any column.
func (k *Keymap) Keycodes(sym chain.Keysym) []xproto.Keycode {
	var out []xproto.Keycode
	for i := 0; i < k.codeCount(); i++ {
		for col := 0; col < k.perCode; col++ {
			if chain.Keysym(k.syms[i*k.perCode+col]) == sym {
				out = append(out, k.min+xproto.Keycode(i))
				break
			}
		}
	}
	return out
}

// modMaskFor returns the modifier bit a keycode producing sym is mapped to.
func (k *Keymap) modMaskFor(sym chain.Keysym, perMod int, modCodes []xproto.Keycode) uint16 {
	codes := k.Keycodes(sym)
	if len(codes) == 0 || perMod == 0 {
		return 0
	}
	for mod := 0; mod < 8 && (mod+1)*perMod <= len(modCodes); mod++ {
		for _, mc := range modCodes[mod*perMod : (mod+1)*perMod] {
			for _, c := range codes {
				if mc != 0 && mc == c {
					return 1 << uint(mod)
				}
			}
		}
	}
	return 0
}

// LockMask is the union of all lock masks.
func (k *Keymap) LockMask() uint16 {
	return k.CapsLock | k.NumLock | k.ScrollLock
}

// Mods strips lock bits and pointer button bits from an event state field.
func (k *Keymap) Mods(state uint16) chain.ModMask {
	return chain.ModMask(state&^k.LockMask()) & chain.ModStateField
}
