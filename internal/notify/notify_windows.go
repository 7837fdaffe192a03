//go:build windows

package notify

import (
	"log"
	"strings"

	"github.com/go-toast/toast"
)

func platformNotify(level Level, title, message string) error {
	notification := toast.Notification{
		AppID:   "hotkeyd",
		Title:   title,
		Message: message,
	}
	if level == LevelError {
		notification.Audio = toast.Default
	} else {
		notification.Audio = toast.Silent
	}

	err := notification.Push()
	if err != nil {
		// Check for common toast error (e.g., notifications disabled system-wide)
		if strings.Contains(err.Error(), "notification platform is unavailable") {
			log.Println("Toast notification failed: Platform unavailable (Notifications might be disabled in Windows Settings).")
		}
		return err
	}
	return nil
}
