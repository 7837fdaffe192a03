package x11

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/TanaroSch/hotkeyd/internal/chain"
	"github.com/TanaroSch/hotkeyd/internal/grab"
)

// ErrConnectionClosed is returned when the X server goes away.
var ErrConnectionClosed = errors.New("the X server closed the connection")

// Conn is the daemon's connection to the X server. A reader goroutine decodes
// events into Inputs; everything else is called from the daemon loop.
type Conn struct {
	xu   *xgbutil.XUtil
	conn *xgb.Conn
	root xproto.Window

	mu     sync.RWMutex
	keymap *Keymap

	inputs chan Input
	done   chan struct{}
	once   sync.Once
}

// Open connects to the display named by $DISPLAY and loads the keymap. Without
// a display it fails with grab.ErrBackendNotAvailable.
func Open() (*Conn, error) {
	if err := CheckDisplay(); err != nil {
		return nil, fmt.Errorf("%w: %w", grab.ErrBackendNotAvailable, err)
	}
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	c := &Conn{
		xu:     xu,
		conn:   xu.Conn(),
		root:   xu.RootWin(),
		inputs: make(chan Input, 64),
		done:   make(chan struct{}),
	}
	if err := c.RefreshKeymap(); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	log.Printf("X11: Connected, root window 0x%x", c.root)
	go c.read()
	return c, nil
}

// Inputs returns the channel of decoded events. It is closed when the
// connection is lost.
func (c *Conn) Inputs() <-chan Input {
	return c.inputs
}

// RefreshKeymap reloads the keyboard and modifier mappings from the server.
func (c *Conn) RefreshKeymap() error {
	setup := xproto.Setup(c.conn)
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)
	km, err := xproto.GetKeyboardMapping(c.conn, setup.MinKeycode, count).Reply()
	if err != nil {
		return fmt.Errorf("failed to get keyboard mapping: %w", err)
	}
	mm, err := xproto.GetModifierMapping(c.conn).Reply()
	if err != nil {
		return fmt.Errorf("failed to get modifier mapping: %w", err)
	}
	keymap := NewKeymap(setup.MinKeycode, int(km.KeysymsPerKeycode), km.Keysyms,
		int(mm.KeycodesPerModifier), mm.Keycodes)

	c.mu.Lock()
	c.keymap = keymap
	c.mu.Unlock()
	log.Printf("X11: Keymap loaded (num lock 0x%02x, scroll lock 0x%02x)", keymap.NumLock, keymap.ScrollLock)
	return nil
}

func (c *Conn) currentKeymap() *Keymap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keymap
}

// read forwards decoded events until the connection closes. A keyboard or
// modifier MappingNotify refreshes the keymap before later events are decoded.
func (c *Conn) read() {
	defer close(c.inputs)
	for {
		ev, xerr := c.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			log.Println("X11: Server closed the connection")
			return
		}
		if xerr != nil {
			log.Printf("X11: Error: %v", xerr)
			continue
		}
		in, ok := decode(ev, c.currentKeymap())
		if !ok {
			continue
		}
		if in.Kind == InputMapping && in.Scope != ScopePointer {
			if err := c.RefreshKeymap(); err != nil {
				log.Printf("X11: %v", err)
			}
		}
		select {
		case c.inputs <- in:
		case <-c.done:
			return
		}
	}
}

// Allow releases the device frozen by the last event. replay sends the event
// on to the client it was meant for; otherwise it is consumed.
func (c *Conn) Allow(d chain.Device, replay bool) {
	xproto.AllowEvents(c.conn, allowMode(d, replay), xproto.TimeCurrentTime)
}

func allowMode(d chain.Device, replay bool) byte {
	switch {
	case d == chain.Pointer && replay:
		return xproto.AllowReplayPointer
	case d == chain.Pointer:
		return xproto.AllowSyncPointer
	case replay:
		return xproto.AllowReplayKeyboard
	default:
		return xproto.AllowSyncKeyboard
	}
}

// Close disconnects from the server.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
