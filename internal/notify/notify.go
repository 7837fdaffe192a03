package notify

import (
	"fmt"
	"log"
	"sync"

	"github.com/ncruces/zenity"
)

// Level is the severity of an operator notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "Warning"
	case LevelError:
		return "Error"
	default:
		return "Info"
	}
}

// Manager shows desktop notifications for events the operator should see:
// reload results, grab conflicts, fatal errors.
type Manager struct {
	mu      sync.Mutex
	enabled bool
	appName string

	// send delivers one notification; replaced in tests.
	send func(level Level, title, message string) error
}

// NewManager creates a notification manager.
func NewManager(enabled bool, appName string) *Manager {
	return &Manager{enabled: enabled, appName: appName, send: platformNotify}
}

// SetEnabled switches desktop notifications on or off; log lines are kept.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
}

// ShowAdminNotification logs the message and, when enabled, shows it on the desktop.
func (m *Manager) ShowAdminNotification(level Level, title, message string) {
	log.Printf("Notification [%s] %s: %s", level, title, message)
	if m == nil {
		return
	}
	m.mu.Lock()
	enabled := m.enabled
	m.mu.Unlock()
	if !enabled {
		return
	}
	if err := m.send(level, m.appName+": "+title, message); err != nil {
		log.Printf("Error showing notification: %v", err)
	}
}

// Fatal shows a blocking error dialog before the daemon exits. It falls back
// to a notification when no dialog can be shown.
func (m *Manager) Fatal(err error) {
	msg := fmt.Sprintf("%v", err)
	log.Printf("Fatal: %s", msg)
	title := "hotkeyd"
	if m != nil {
		title = m.appName
	}
	if dErr := zenity.Error(msg, zenity.Title(title+" stopped"), zenity.ErrorIcon); dErr != nil {
		log.Printf("Error showing dialog: %v", dErr)
		m.ShowAdminNotification(LevelError, "Stopped", msg)
	}
}
