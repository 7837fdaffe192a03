package x11

import (
	"errors"
	"log"
	"os"
)

// ErrNoDisplay is returned when no X display is configured.
var ErrNoDisplay = errors.New("no X display (DISPLAY not set)")

// CheckDisplay verifies that an X server can be reached through $DISPLAY.
// Under a Wayland session the daemon still runs against XWayland, but only
// X clients will see its grabs.
func CheckDisplay() error {
	if os.Getenv("DISPLAY") == "" {
		log.Println("Warning: Could not detect display server type")
		return ErrNoDisplay
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		log.Println("Warning: Wayland session detected, grabs only apply to X clients (XWayland)")
		return nil
	}
	log.Printf("Detected display server: X11 (DISPLAY=%s)", os.Getenv("DISPLAY"))
	return nil
}
