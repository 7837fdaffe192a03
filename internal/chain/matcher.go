package chain

import "time"

// Outcome is the result class of feeding one event to the Matcher.
type Outcome uint8

const (
	// NoMatch: nothing matched; the event goes back to its original target.
	NoMatch Outcome = iota
	// Advanced: a chain moved one step deeper and now awaits the next chord.
	Advanced
	// FullMatch: a chain completed; its hotkey should be dispatched.
	FullMatch
	// Aborted: the escape chord cancelled an in-progress chain.
	Aborted
	// Ignored: an in-progress chain saw an event of a polarity none of its
	// candidates expect. The event is forwarded and the chain stays armed.
	Ignored
	// Held: the press of a key or button that a release or motion candidate
	// is keyed on. It is swallowed so that the grab stays active and the
	// release or motion reaches the daemon; the state is unchanged.
	Held
)

func (o Outcome) String() string {
	switch o {
	case NoMatch:
		return "no-match"
	case Advanced:
		return "advanced"
	case FullMatch:
		return "full-match"
	case Aborted:
		return "aborted"
	case Ignored:
		return "ignored"
	case Held:
		return "held"
	default:
		return "unknown"
	}
}

// Result describes what one event did to the automaton.
type Result struct {
	Outcome Outcome
	// Hotkey is set for FullMatch.
	Hotkey *Hotkey
	// Depth is the number of chords matched so far (FullMatch: chain length).
	Depth int
	// Label is the matched prefix as configured.
	Label string
}

// Swallow reports whether the event was consumed by the daemon rather than
// replayed to the application it was meant for.
func (r Result) Swallow() bool {
	switch r.Outcome {
	case Advanced, FullMatch, Aborted, Held:
		return true
	default:
		return false
	}
}

const idle = -1

// Matcher is the chain automaton. It is Idle or awaiting the next chord of
// the chains below its current node. It is not safe for concurrent use.
type Matcher struct {
	forest   *Forest
	timeout  time.Duration
	node     int
	deadline time.Time
}

// NewMatcher returns an Idle matcher over f. A zero timeout never expires.
func NewMatcher(f *Forest, timeout time.Duration) *Matcher {
	return &Matcher{forest: f, timeout: timeout, node: idle}
}

// Forest returns the forest currently matched against.
func (m *Matcher) Forest() *Forest {
	return m.forest
}

// SetTimeout changes the timeout used for subsequent advances.
func (m *Matcher) SetTimeout(d time.Duration) {
	m.timeout = d
}

// Awaiting reports whether a chain is in progress.
func (m *Matcher) Awaiting() bool {
	return m.node != idle
}

// Depth returns the number of chords matched by the in-progress chain.
func (m *Matcher) Depth() int {
	if m.node == idle {
		return 0
	}
	return m.forest.nodes[m.node].depth
}

// Deadline returns when the in-progress chain times out. ok is false when
// Idle or when no timeout is configured.
func (m *Matcher) Deadline() (deadline time.Time, ok bool) {
	if m.node == idle || m.deadline.IsZero() {
		return time.Time{}, false
	}
	return m.deadline, true
}

// Progress renders the matched prefix, empty when Idle.
func (m *Matcher) Progress() string {
	if m.node == idle {
		return ""
	}
	return m.forest.label(m.node)
}

// Expected returns the chords that can advance the automaton from its
// current state: every root when Idle, the children of the matched prefix
// otherwise. The escape chord is not included.
func (m *Matcher) Expected() []Chord {
	if m.forest == nil {
		return nil
	}
	return m.forest.chordsOf(m.forest.children(m.node))
}

// Feed runs one normalized chord through the automaton.
func (m *Matcher) Feed(c Chord, now time.Time) Result {
	if m.forest == nil {
		return Result{Outcome: NoMatch}
	}
	if m.node != idle && c == Escape {
		m.Reset()
		return Result{Outcome: Aborted}
	}

	candidates := m.forest.children(m.node)
	for _, id := range candidates {
		n := &m.forest.nodes[id]
		if n.step.Chord != c {
			continue
		}
		if n.hotkey != noHotkey {
			m.Reset()
			return Result{
				Outcome: FullMatch,
				Hotkey:  m.forest.hotkeys[n.hotkey],
				Depth:   n.depth,
				Label:   m.forest.label(id),
			}
		}
		m.node = id
		m.arm(now)
		return Result{Outcome: Advanced, Depth: n.depth, Label: m.forest.label(id)}
	}

	if c.Polarity == Press && m.heldBy(candidates, c) {
		return Result{Outcome: Held, Depth: m.Depth(), Label: m.Progress()}
	}
	if m.node == idle {
		return Result{Outcome: NoMatch}
	}
	if !m.expectsPolarity(candidates, c.Polarity) {
		return Result{Outcome: Ignored, Depth: m.Depth(), Label: m.Progress()}
	}
	m.Reset()
	return Result{Outcome: NoMatch}
}

func (m *Matcher) expectsPolarity(ids []int, p Polarity) bool {
	for _, id := range ids {
		if m.forest.nodes[id].step.Chord.Polarity == p {
			return true
		}
	}
	return false
}

// heldBy reports whether a release or motion candidate is keyed on the key
// or button c presses.
func (m *Matcher) heldBy(ids []int, c Chord) bool {
	for _, id := range ids {
		o := m.forest.nodes[id].step.Chord
		if o.Polarity != Press && o.Sym == c.Sym && o.Button == c.Button && o.Mods == c.Mods {
			return true
		}
	}
	return false
}

// arm restarts the timeout from now; an advance never extends the previous
// deadline.
func (m *Matcher) arm(now time.Time) {
	if m.timeout <= 0 {
		m.deadline = time.Time{}
		return
	}
	m.deadline = now.Add(m.timeout)
}

// Expire resets to Idle if the in-progress chain's deadline has passed and
// reports whether it did.
func (m *Matcher) Expire(now time.Time) bool {
	deadline, ok := m.Deadline()
	if !ok || now.Before(deadline) {
		return false
	}
	m.Reset()
	return true
}

// Reset returns to Idle and reports whether a chain was in progress.
func (m *Matcher) Reset() bool {
	was := m.node != idle
	m.node = idle
	m.deadline = time.Time{}
	return was
}

// Replace resets the automaton and starts matching against f.
func (m *Matcher) Replace(f *Forest) {
	m.Reset()
	m.forest = f
}
