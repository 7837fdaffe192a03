// Package diffutil summarises how the hotkey list changed across a reload.
package diffutil

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Summary lists the lines added and removed between two versions of a list.
type Summary struct {
	Added     []string
	Removed   []string
	Unchanged int
}

// Changed reports whether anything was added or removed.
func (s Summary) Changed() bool {
	return len(s.Added) > 0 || len(s.Removed) > 0
}

// Summarize diffs two line lists. Each element is compared as a whole line.
func Summarize(original, modified []string) Summary {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 5 * time.Second

	a, b, lineArray := dmp.DiffLinesToChars(joinLines(original), joinLines(modified))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var s Summary
	for _, d := range diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			s.Added = append(s.Added, lines...)
		case diffmatchpatch.DiffDelete:
			s.Removed = append(s.Removed, lines...)
		case diffmatchpatch.DiffEqual:
			s.Unchanged += len(lines)
		}
	}
	return s
}

// String renders a short report: counts, then one +/- line per change.
func (s Summary) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d added, %d removed, %d unchanged", len(s.Added), len(s.Removed), s.Unchanged)
	for _, l := range s.Removed {
		fmt.Fprintf(&buf, "\n- %s", l)
	}
	for _, l := range s.Added {
		fmt.Fprintf(&buf, "\n+ %s", l)
	}
	return buf.String()
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
