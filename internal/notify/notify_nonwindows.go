//go:build !windows

package notify

import "github.com/gen2brain/beeep"

func platformNotify(level Level, title, message string) error {
	// Icon path left empty on non-Windows.
	if level == LevelError {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}
