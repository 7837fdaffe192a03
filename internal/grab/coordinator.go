package grab

import (
	"fmt"
	"log"
)

// GrabError reports a single target the backend refused, typically because
// another client already holds a conflicting grab.
type GrabError struct {
	Op     string
	Target Target
	Err    error
}

func (e *GrabError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *GrabError) Unwrap() error {
	return e.Err
}

// Coordinator keeps the backend's installed grabs equal to a wanted Set,
// issuing only the difference on every change. It is owned by the daemon
// loop and is not safe for concurrent use.
type Coordinator struct {
	backend Backend
	held    Set
	// failed holds targets the backend refused. They are not retried until
	// they leave the wanted set or everything is released.
	failed Set
}

// NewCoordinator creates a coordinator with nothing grabbed.
func NewCoordinator(b Backend) *Coordinator {
	return &Coordinator{backend: b, held: make(Set), failed: make(Set)}
}

// Failed returns a copy of the targets whose grab was refused.
func (c *Coordinator) Failed() Set {
	out := make(Set, len(c.failed))
	for t, m := range c.failed {
		out[t] = m
	}
	return out
}

// Held returns a copy of the currently installed set.
func (c *Coordinator) Held() Set {
	out := make(Set, len(c.held))
	for t, m := range c.held {
		out[t] = m
	}
	return out
}

// Sync withdraws grabs not in want and installs the missing ones. A target
// whose motion flag changed is re-grabbed. Failures are collected per target
// and never stop the batch. A refused target is not held and is not tried
// again while it stays wanted with the same motion flag.
func (c *Coordinator) Sync(want Set) []error {
	for t, motion := range c.failed {
		if m, ok := want[t]; !ok || m != motion {
			delete(c.failed, t)
		}
	}

	var errs []error
	for _, t := range c.held.Targets() {
		motion := c.held[t]
		if m, ok := want[t]; ok && m == motion {
			continue
		}
		if err := c.backend.Ungrab(t); err != nil {
			errs = append(errs, &GrabError{Op: "ungrab", Target: t, Err: err})
		}
		delete(c.held, t)
	}
	for _, t := range want.Targets() {
		if _, ok := c.held[t]; ok {
			continue
		}
		if _, ok := c.failed[t]; ok {
			continue
		}
		if err := c.backend.Grab(t, want[t]); err != nil {
			errs = append(errs, &GrabError{Op: "grab", Target: t, Err: err})
			c.failed[t] = want[t]
			continue
		}
		c.held[t] = want[t]
	}
	return errs
}

// Reset tears every grab down and installs want from scratch. Used after a
// keymap change, when keycodes behind the held targets may have moved.
func (c *Coordinator) Reset(want Set) []error {
	var errs []error
	if err := c.Release(); err != nil {
		errs = append(errs, err)
	}
	return append(errs, c.Sync(want)...)
}

// Release withdraws every grab and forgets refused targets, so the next Sync
// tries them again.
func (c *Coordinator) Release() error {
	if len(c.held) > 0 {
		log.Printf("Grab: Releasing %d grabs via %s", len(c.held), c.backend.Name())
	}
	c.held = make(Set)
	c.failed = make(Set)
	if err := c.backend.UngrabAll(); err != nil {
		return fmt.Errorf("failed to release grabs: %w", err)
	}
	return nil
}
