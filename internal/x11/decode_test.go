package x11

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/TanaroSch/hotkeyd/internal/chain"
	"github.com/TanaroSch/hotkeyd/internal/grab"
)

func TestDecode(t *testing.T) {
	km := testKeymap()
	numLock := uint16(xproto.ModMask2)

	tests := []struct {
		name   string
		ev     xgb.Event
		want   Input
		wantOK bool
	}{
		{
			name: "key press strips num lock",
			ev:   xproto.KeyPressEvent{Detail: 8, State: numLock | xproto.ModMask4, Time: 42, RootX: 3, RootY: 4},
			want: Input{Event: chain.Event{
				Chord: chain.KeyChord('a', chain.Mod4, chain.Press), Device: chain.Keyboard, Time: 42, RootX: 3, RootY: 4,
			}},
			wantOK: true,
		},
		{
			name: "shifted key uses first column",
			ev:   xproto.KeyReleaseEvent{Detail: 9, State: xproto.ModMaskShift},
			want: Input{Event: chain.Event{
				Chord: chain.KeyChord('b', chain.ModShift, chain.Release), Device: chain.Keyboard,
			}},
			wantOK: true,
		},
		{
			name: "button press",
			ev:   xproto.ButtonPressEvent{Detail: 3, State: xproto.ModMaskLock | xproto.ModMask1},
			want: Input{Event: chain.Event{
				Chord: chain.ButtonChord(3, chain.Mod1, chain.Press), Device: chain.Pointer,
			}},
			wantOK: true,
		},
		{
			name: "motion keyed on lowest held button",
			ev:   xproto.MotionNotifyEvent{State: xproto.ModMask4 | xproto.KeyButMaskButton3 | xproto.KeyButMaskButton2, RootX: 10, RootY: 20},
			want: Input{Event: chain.Event{
				Chord: chain.ButtonChord(2, chain.Mod4, chain.Motion), Device: chain.Pointer, RootX: 10, RootY: 20,
			}},
			wantOK: true,
		},
		{
			name:   "pointer mapping",
			ev:     xproto.MappingNotifyEvent{Request: xproto.MappingPointer},
			want:   Input{Kind: InputMapping, Scope: ScopePointer},
			wantOK: true,
		},
		{
			name:   "keyboard mapping",
			ev:     xproto.MappingNotifyEvent{Request: xproto.MappingKeyboard},
			want:   Input{Kind: InputMapping, Scope: ScopeKeyboard},
			wantOK: true,
		},
		{
			name: "unrelated event",
			ev:   xproto.ExposeEvent{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decode(tt.ev, km)
			if ok != tt.wantOK {
				t.Fatalf("decode() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFrozen(t *testing.T) {
	key := Input{Event: chain.Event{Chord: chain.KeyChord('a', 0, chain.Press)}}
	motion := Input{Event: chain.Event{Chord: chain.ButtonChord(1, 0, chain.Motion)}}
	mapping := Input{Kind: InputMapping}
	if !key.Frozen() || motion.Frozen() || mapping.Frozen() {
		t.Errorf("Frozen() = %v %v %v, want true false false", key.Frozen(), motion.Frozen(), mapping.Frozen())
	}
}

func TestAllowMode(t *testing.T) {
	tests := []struct {
		d      chain.Device
		replay bool
		want   byte
	}{
		{chain.Keyboard, true, xproto.AllowReplayKeyboard},
		{chain.Keyboard, false, xproto.AllowSyncKeyboard},
		{chain.Pointer, true, xproto.AllowReplayPointer},
		{chain.Pointer, false, xproto.AllowSyncPointer},
	}
	for _, tt := range tests {
		if got := allowMode(tt.d, tt.replay); got != tt.want {
			t.Errorf("allowMode(%v, %v) = %d, want %d", tt.d, tt.replay, got, tt.want)
		}
	}
}

func TestCheckDisplay(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("DISPLAY", "")
	if err := CheckDisplay(); err != ErrNoDisplay {
		t.Errorf("CheckDisplay() without DISPLAY = %v, want %v", err, ErrNoDisplay)
	}
	t.Setenv("DISPLAY", ":0")
	if err := CheckDisplay(); err != nil {
		t.Errorf("CheckDisplay() = %v, want nil", err)
	}
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	if err := CheckDisplay(); err != nil {
		t.Errorf("CheckDisplay() under Wayland = %v, want nil", err)
	}
}

func TestOpenWithoutDisplay(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("DISPLAY", "")
	c, err := Open()
	if c != nil {
		t.Error("Open() returned a connection without a display")
	}
	if !errors.Is(err, grab.ErrBackendNotAvailable) || !errors.Is(err, ErrNoDisplay) {
		t.Errorf("Open() error = %v, want %v and %v", err, grab.ErrBackendNotAvailable, ErrNoDisplay)
	}
}
