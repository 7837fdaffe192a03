package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/TanaroSch/hotkeyd/internal/grab"
)

// ErrNoKeycode is returned when no key on the current keyboard produces a keysym.
var ErrNoKeycode = errors.New("no keycode for keysym")

const buttonEventMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease

// Name returns the name of this backend.
func (c *Conn) Name() string {
	return "X11 (xgb)"
}

// Grab installs a synchronous passive grab on the root window for every
// keycode producing t and every lock modifier combination.
func (c *Conn) Grab(t grab.Target, motion bool) error {
	km := c.currentKeymap()
	var errs []error
	if t.IsButton() {
		mask := uint16(buttonEventMask)
		if motion {
			mask |= xproto.EventMaskButtonMotion
		}
		for _, mods := range expandLocks(uint16(t.Mods), km.CapsLock, km.NumLock, km.ScrollLock) {
			err := xproto.GrabButtonChecked(c.conn, true, c.root, mask,
				xproto.GrabModeSync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
				byte(t.Button), mods).Check()
			if err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	codes := km.Keycodes(t.Sym)
	if len(codes) == 0 {
		return fmt.Errorf("%w 0x%04x", ErrNoKeycode, uint32(t.Sym))
	}
	for _, code := range codes {
		for _, mods := range expandLocks(uint16(t.Mods), km.CapsLock, km.NumLock, km.ScrollLock) {
			err := xproto.GrabKeyChecked(c.conn, true, c.root, mods, code,
				xproto.GrabModeAsync, xproto.GrabModeSync).Check()
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Ungrab withdraws what Grab installed for t under the current keymap.
func (c *Conn) Ungrab(t grab.Target) error {
	km := c.currentKeymap()
	var errs []error
	if t.IsButton() {
		for _, mods := range expandLocks(uint16(t.Mods), km.CapsLock, km.NumLock, km.ScrollLock) {
			if err := xproto.UngrabButtonChecked(c.conn, byte(t.Button), c.root, mods).Check(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	for _, code := range km.Keycodes(t.Sym) {
		for _, mods := range expandLocks(uint16(t.Mods), km.CapsLock, km.NumLock, km.ScrollLock) {
			if err := xproto.UngrabKeyChecked(c.conn, code, c.root, mods).Check(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// UngrabAll withdraws every key and button grab on the root window.
func (c *Conn) UngrabAll() error {
	keyErr := xproto.UngrabKeyChecked(c.conn, xproto.GrabAny, c.root, xproto.ModMaskAny).Check()
	buttonErr := xproto.UngrabButtonChecked(c.conn, xproto.ButtonIndexAny, c.root, xproto.ModMaskAny).Check()
	return errors.Join(keyErr, buttonErr)
}

var _ grab.Backend = (*Conn)(nil)
