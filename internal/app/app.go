package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/TanaroSch/hotkeyd/internal/chain"
	"github.com/TanaroSch/hotkeyd/internal/config"
	"github.com/TanaroSch/hotkeyd/internal/diffutil"
	"github.com/TanaroSch/hotkeyd/internal/dispatch"
	"github.com/TanaroSch/hotkeyd/internal/grab"
	"github.com/TanaroSch/hotkeyd/internal/notify"
	"github.com/TanaroSch/hotkeyd/internal/status"
	"github.com/TanaroSch/hotkeyd/internal/x11"
)

// Display is the windowing system as the daemon loop sees it: a grab
// backend, a stream of normalized input and the freeze release.
type Display interface {
	grab.Backend
	Inputs() <-chan x11.Input
	Allow(d chain.Device, replay bool)
}

// Runner starts hotkey commands.
type Runner interface {
	Run(cmd dispatch.Command) error
}

// Notifier shows operator notifications.
type Notifier interface {
	ShowAdminNotification(level notify.Level, title, message string)
	SetEnabled(enabled bool)
}

// Deps are the collaborators of the daemon loop.
type Deps struct {
	Display  Display
	Load     func() (*config.Config, error)
	Runner   Runner
	Status   *status.Writer
	Notifier Notifier
}

// Options tune the daemon loop.
type Options struct {
	// IgnoreMapping skips reloads on keyboard mapping changes.
	IgnoreMapping bool
	// Verbose logs every input and its outcome.
	Verbose bool
	// Reload receives a value for every requested reload (SIGUSR1).
	Reload <-chan struct{}
}

// Application is the hotkey daemon. All of its state is owned by the
// goroutine running Run.
type Application struct {
	Deps
	opts Options

	config  *config.Config
	matcher *chain.Matcher
	grabs   *grab.Coordinator
	motion  *chain.MotionLimiter
	timer   *time.Timer
	watcher *config.Watcher
	now     func() time.Time

	// reported holds targets whose grab failure was already notified.
	reported map[grab.Target]bool
}

// New loads the configuration and builds the daemon. Nothing is grabbed
// until Run.
func New(deps Deps, opts Options) (*Application, error) {
	cfg, err := deps.Load()
	if err != nil {
		return nil, err
	}
	forest, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	a := &Application{
		Deps:     deps,
		opts:     opts,
		config:   cfg,
		matcher:  chain.NewMatcher(forest, cfg.TimeoutDuration()),
		grabs:    grab.NewCoordinator(deps.Display),
		motion:   chain.NewMotionLimiter(cfg.MaxMotionFreq),
		timer:    time.NewTimer(time.Hour),
		now:      time.Now,
		reported: make(map[grab.Target]bool),
	}
	a.timer.Stop()
	a.Notifier.SetEnabled(cfg.Notifications)
	log.Printf("Loaded %d hotkeys from %s", forest.Len(), strings.Join(cfg.Paths(), ", "))
	return a, nil
}

// Run grabs the root chords and processes input until ctx is cancelled or the
// X connection is lost. Every grab is withdrawn before it returns.
func (a *Application) Run(ctx context.Context) error {
	a.updateWatcher()
	defer a.stopWatcher()

	log.Printf("Grabbing via %s", a.Display.Name())
	a.syncGrabs()

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down...")
			a.shutdown()
			return nil

		case in, ok := <-a.Display.Inputs():
			if !ok {
				a.shutdown()
				return x11.ErrConnectionClosed
			}
			a.handleInput(in)

		case <-a.timer.C:
			a.onTimeout()

		case <-a.opts.Reload:
			a.reload("reload requested", false)

		case <-a.watchChanges():
			a.reload("configuration file changed", false)
		}
	}
}

// handleInput processes one event to completion: match, grab delta, then
// release of the frozen device.
func (a *Application) handleInput(in x11.Input) {
	if in.Kind == x11.InputMapping {
		a.onMapping(in.Scope)
		return
	}

	ev := in.Event
	if ev.Chord.Polarity == chain.Motion && !a.motion.Allow(ev.Time) {
		return
	}

	now := a.now()
	if a.matcher.Expire(now) {
		a.Status.Timeout()
	}
	wasAwaiting := a.matcher.Awaiting()
	res := a.matcher.Feed(ev.Chord, now)
	a.debugf("Input %v -> %s %s", ev.Chord, res.Outcome, res.Label)

	switch res.Outcome {
	case chain.Advanced:
		a.Status.Hotkey(res.Label)
	case chain.FullMatch:
		a.Status.Hotkey(res.Label)
		a.dispatch(res.Hotkey, ev)
	case chain.Aborted:
		a.Status.Hotkey("")
	case chain.NoMatch:
		if wasAwaiting {
			a.Status.Hotkey("")
		}
	}

	a.syncGrabs()
	a.armTimer(now)

	if in.Frozen() {
		a.Display.Allow(ev.Device, !res.Swallow())
	}
}

func (a *Application) dispatch(hk *chain.Hotkey, ev chain.Event) {
	tpl, idx := hk.Next()
	text := tpl.Render(ev)
	a.debugf("Dispatching %q (cycle %d) for %s", text, idx, hk.Label())
	if err := a.Runner.Run(dispatch.Command{Text: text, CycleIndex: idx}); err != nil {
		a.Notifier.ShowAdminNotification(notify.LevelWarn, "Command Failed", err.Error())
		return
	}
	a.Status.Command(text)
}

func (a *Application) onTimeout() {
	if !a.matcher.Expire(a.now()) {
		a.armTimer(a.now())
		return
	}
	a.debugf("Chain timed out")
	a.Status.Timeout()
	a.syncGrabs()
}

func (a *Application) onMapping(scope x11.Scope) {
	if scope == x11.ScopePointer {
		a.debugf("Ignoring pointer mapping change")
		return
	}
	if a.opts.IgnoreMapping {
		a.debugf("Ignoring %s mapping change", scope)
		return
	}
	a.reload(fmt.Sprintf("%s mapping changed", scope), true)
}

// reload replaces the forest from a fresh configuration. On failure the
// current forest and its grabs stay in place. keymapChanged forces a full
// teardown of the grabs since their keycodes may have moved.
func (a *Application) reload(reason string, keymapChanged bool) {
	log.Printf("Reloading configuration (%s)...", reason)
	if a.matcher.Reset() {
		a.Status.Hotkey("")
	}
	a.timer.Stop()

	newConfig, err := a.Load()
	var forest *chain.Forest
	if err == nil {
		forest, err = newConfig.Build()
	}
	if err != nil {
		log.Printf("Error reloading configuration: %v", err)
		a.Notifier.ShowAdminNotification(notify.LevelError, "Configuration Error",
			fmt.Sprintf("Failed to reload configuration, keeping the previous hotkeys. Error: %v", err))
		if keymapChanged {
			a.reportGrabErrors(a.grabs.Reset(grab.ForMatcher(a.matcher)))
		} else {
			a.syncGrabs()
		}
		return
	}

	old := a.matcher.Forest()
	carried := forest.CarryCursors(old)
	summary := diffutil.Summarize(old.Lines(), forest.Lines())

	if err := a.grabs.Release(); err != nil {
		log.Printf("Warning: %v", err)
	}
	if newConfig.MaxMotionFreq != a.config.MaxMotionFreq {
		a.motion = chain.NewMotionLimiter(newConfig.MaxMotionFreq)
	}
	a.config = newConfig
	a.matcher.Replace(forest)
	a.matcher.SetTimeout(newConfig.TimeoutDuration())
	a.Notifier.SetEnabled(newConfig.Notifications)
	a.reported = make(map[grab.Target]bool)
	a.syncGrabs()
	a.updateWatcher()

	log.Printf("Configuration reloaded: %s (%d cycle positions kept)", summary, carried)
	if summary.Changed() {
		a.Notifier.ShowAdminNotification(notify.LevelInfo, "Configuration Reloaded", summary.String())
	}
}

func (a *Application) syncGrabs() {
	a.reportGrabErrors(a.grabs.Sync(grab.ForMatcher(a.matcher)))
}

// reportGrabErrors logs every failure and notifies once per target. A refused
// target is retried after it leaves the grab set or on reload.
func (a *Application) reportGrabErrors(errs []error) {
	var conflicts, unmapped []string
	for _, err := range errs {
		log.Printf("Warning: %v", err)
		var ge *grab.GrabError
		if !errors.As(err, &ge) || ge.Op != "grab" || a.reported[ge.Target] {
			continue
		}
		a.reported[ge.Target] = true
		if errors.Is(ge.Err, x11.ErrNoKeycode) {
			unmapped = append(unmapped, ge.Target.String())
		} else {
			conflicts = append(conflicts, ge.Target.String())
		}
	}
	if len(unmapped) > 0 {
		a.Notifier.ShowAdminNotification(notify.LevelWarn, "Key Not On Keyboard",
			fmt.Sprintf("No key on the current keyboard produces %s.", strings.Join(unmapped, ", ")))
	}
	if len(conflicts) > 0 {
		a.Notifier.ShowAdminNotification(notify.LevelWarn, "Grab Conflict",
			fmt.Sprintf("Could not grab %s; another client may hold it.", strings.Join(conflicts, ", ")))
	}
}

// armTimer points the timer at the matcher's deadline, or stops it.
func (a *Application) armTimer(now time.Time) {
	deadline, ok := a.matcher.Deadline()
	if !ok {
		a.timer.Stop()
		return
	}
	a.timer.Reset(deadline.Sub(now))
}

func (a *Application) shutdown() {
	a.timer.Stop()
	a.matcher.Reset()
	if err := a.grabs.Release(); err != nil {
		log.Printf("Warning: %v", err)
	}
}

func (a *Application) updateWatcher() {
	if !a.config.Watch {
		a.stopWatcher()
		return
	}
	if a.watcher != nil {
		return
	}
	w, err := config.NewWatcher(a.config.Paths(), config.DefaultDebounce)
	if err != nil {
		log.Printf("Warning: Config watching disabled: %v", err)
		return
	}
	a.watcher = w
}

func (a *Application) stopWatcher() {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Close(); err != nil {
		log.Printf("Warning: Failed to close config watcher: %v", err)
	}
	a.watcher = nil
}

func (a *Application) watchChanges() <-chan struct{} {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Changes()
}

func (a *Application) debugf(format string, args ...interface{}) {
	if a.opts.Verbose {
		log.Printf("Debug: "+format, args...)
	}
}
