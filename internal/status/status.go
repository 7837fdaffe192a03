// Package status writes progress lines for status bars: H for the chain typed
// so far, C for a dispatched command and T for a timeout.
package status

import (
	"errors"
	"io"
	"log"
	"strings"
	"sync"
)

// Line prefixes.
const (
	HotkeyPrefix  = 'H'
	CommandPrefix = 'C'
	TimeoutPrefix = 'T'
)

// TimeoutMessage is written when a partially matched chain expires.
const TimeoutMessage = "Timeout reached"

// ErrFIFOUnsupported is returned on platforms without named pipes.
var ErrFIFOUnsupported = errors.New("status FIFOs are not supported on this platform")

// Writer emits status lines. A nil *Writer discards everything.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// New returns a Writer emitting to w.
func New(w io.Writer) *Writer {
	s := &Writer{w: w}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Hotkey reports the chain matched so far; an empty progress clears it.
func (s *Writer) Hotkey(progress string) {
	s.put(HotkeyPrefix, progress)
}

// Command reports a dispatched command.
func (s *Writer) Command(text string) {
	s.put(CommandPrefix, text)
}

// Timeout reports that a chain expired.
func (s *Writer) Timeout() {
	s.put(TimeoutPrefix, TimeoutMessage)
}

// put writes one line in a single write. A reader that cannot keep up loses
// lines rather than blocking the daemon.
func (s *Writer) put(prefix byte, text string) {
	if s == nil {
		return
	}
	line := string(prefix) + strings.ReplaceAll(text, "\n", " ") + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, line); err != nil && !errors.Is(err, errWouldBlock) {
		log.Printf("Status: failed to write %q: %v", strings.TrimSpace(line), err)
	}
}

// Close closes the underlying writer if it has a Close method.
func (s *Writer) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
