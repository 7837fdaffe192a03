package dispatch

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// ShellEnv names the variable that overrides $SHELL for commands.
const ShellEnv = "HOTKEYD_SHELL"

// CycleIndexEnv is set to the position of the command in its hotkey's cycle.
const CycleIndexEnv = "HOTKEYD_CYCLE_INDEX"

// ErrNoShell is returned when neither HOTKEYD_SHELL nor SHELL is set.
var ErrNoShell = errors.New("no shell: set " + ShellEnv + " or SHELL")

// Command is one rendered hotkey command.
type Command struct {
	Text       string
	CycleIndex int
}

// Runner starts hotkey commands through the user's shell without waiting
// for them. Output goes to the redirect file, or nowhere.
type Runner struct {
	shell  string
	output io.Writer
	closer io.Closer
}

// LookupShell returns $HOTKEYD_SHELL, falling back to $SHELL.
func LookupShell() (string, error) {
	if sh := os.Getenv(ShellEnv); sh != "" {
		return sh, nil
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh, nil
	}
	return "", ErrNoShell
}

// NewRunner creates a runner using shell. A non-empty redirectPath receives
// the output of every command, appended.
func NewRunner(shell, redirectPath string) (*Runner, error) {
	r := &Runner{shell: shell}
	if redirectPath != "" {
		f, err := os.OpenFile(redirectPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open redirect file '%s': %w", redirectPath, err)
		}
		r.output = f
		r.closer = f
	}
	return r, nil
}

// Run starts cmd in its own session and reaps it in the background.
func (r *Runner) Run(cmd Command) error {
	c := r.command(cmd)
	if err := c.Start(); err != nil {
		log.Printf("Failed to start command (%s): %v", cmd.Text, err)
		return fmt.Errorf("failed to start command (%s): %w", cmd.Text, err)
	}
	go func() {
		if err := c.Wait(); err != nil {
			log.Printf("Command (%s) exited: %v", cmd.Text, err)
		}
	}()
	return nil
}

func (r *Runner) command(cmd Command) *exec.Cmd {
	c := exec.Command(r.shell, "-c", cmd.Text)
	c.Env = append(os.Environ(), CycleIndexEnv+"="+strconv.Itoa(cmd.CycleIndex))
	c.Stdout = r.output
	c.Stderr = r.output
	detach(c)
	return c
}

// Close closes the redirect file.
func (r *Runner) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
