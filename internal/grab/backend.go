package grab

import "errors"

// ErrBackendNotAvailable is returned when a backend cannot be used on the current system.
var ErrBackendNotAvailable = errors.New("grab backend not available on this system")

// Backend abstracts the windowing system's passive grab facility so the
// coordinator can be driven by X11 in production and by a fake in tests.
type Backend interface {
	// Grab installs a synchronous passive grab for t. When motion is true the
	// grab also reports pointer motion while the button is held.
	Grab(t Target, motion bool) error

	// Ungrab withdraws a grab previously installed for t.
	Ungrab(t Target) error

	// UngrabAll withdraws every grab on the root window.
	UngrabAll() error

	// Name returns a human-readable name for this backend (for logging).
	Name() string
}
