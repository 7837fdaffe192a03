//go:build unix

package dispatch

import (
	"os/exec"
	"syscall"
)

// detach starts the command in a new session so it outlives the daemon and
// does not receive its terminal's signals.
func detach(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
