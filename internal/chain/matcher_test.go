package chain

import (
	"testing"
	"time"
)

const (
	symA Keysym = 'a'
	symB Keysym = 'b'
	symC Keysym = 'c'
	symW Keysym = 'w'
)

func press(sym Keysym) Chord   { return KeyChord(sym, 0, Press) }
func release(sym Keysym) Chord { return KeyChord(sym, 0, Release) }

func steps(chords ...Chord) []Step {
	out := make([]Step, len(chords))
	for i, c := range chords {
		out[i] = Step{Chord: c, Label: c.String()}
	}
	return out
}

func cmds(texts ...string) []Template {
	out := make([]Template, len(texts))
	for i, t := range texts {
		out[i] = MustTemplate(t)
	}
	return out
}

func buildForest(t *testing.T, add func(b *Builder)) *Forest {
	t.Helper()
	b := NewBuilder()
	add(b)
	return b.Build()
}

func mustAdd(t *testing.T, b *Builder, s []Step, c []Template) {
	t.Helper()
	if err := b.Add(s, c); err != nil {
		t.Fatalf("Add(%s) error = %v", joinLabels(s), err)
	}
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFeedIdleNoMatch(t *testing.T) {
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symA)), cmds("A"))
		mustAdd(t, b, steps(press(symW), press(symB)), cmds("WB"))
	})
	m := NewMatcher(f, time.Second)

	for _, c := range []Chord{press(symC), release(symA), KeyChord(symA, ModShift, Press), Escape} {
		res := m.Feed(c, epoch)
		if res.Outcome != NoMatch {
			t.Errorf("Feed(%v) = %v, want %v", c, res.Outcome, NoMatch)
		}
		if m.Awaiting() {
			t.Errorf("Feed(%v) left matcher awaiting", c)
		}
	}
}

func TestFeedSingleChordFullMatch(t *testing.T) {
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symA)), cmds("A"))
	})
	m := NewMatcher(f, time.Second)

	res := m.Feed(press(symA), epoch)
	if res.Outcome != FullMatch {
		t.Fatalf("Outcome = %v, want %v", res.Outcome, FullMatch)
	}
	if res.Hotkey == nil || res.Hotkey.Commands[0].Text() != "A" {
		t.Errorf("Hotkey = %+v, want command A", res.Hotkey)
	}
	if m.Awaiting() {
		t.Error("matcher awaiting after single-chord match")
	}
	if !res.Swallow() {
		t.Error("FullMatch must be swallowed")
	}
}

func TestFeedChainOfLengthN(t *testing.T) {
	chain := []Chord{press(symW), press(symA), press(symB), press(symC)}
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(chain...), cmds("X"))
	})

	t.Run("complete", func(t *testing.T) {
		m := NewMatcher(f, time.Second)
		fulls := 0
		for i, c := range chain {
			res := m.Feed(c, epoch)
			last := i == len(chain)-1
			switch {
			case last && res.Outcome != FullMatch:
				t.Fatalf("step %d: Outcome = %v, want %v", i, res.Outcome, FullMatch)
			case !last && res.Outcome != Advanced:
				t.Fatalf("step %d: Outcome = %v, want %v", i, res.Outcome, Advanced)
			case !last && res.Depth != i+1:
				t.Errorf("step %d: Depth = %d, want %d", i, res.Depth, i+1)
			}
			if res.Outcome == FullMatch {
				fulls++
			}
		}
		if fulls != 1 {
			t.Errorf("FullMatch count = %d, want 1", fulls)
		}
		if m.Awaiting() {
			t.Error("matcher not Idle after full match")
		}
	})

	for k := 1; k < len(chain); k++ {
		m := NewMatcher(f, time.Second)
		for i := 0; i < k; i++ {
			if res := m.Feed(chain[i], epoch); res.Outcome != Advanced {
				t.Fatalf("k=%d step %d: Outcome = %v, want %v", k, i, res.Outcome, Advanced)
			}
		}
		res := m.Feed(press(Keysym('z')), epoch)
		if res.Outcome != NoMatch {
			t.Errorf("k=%d deviation: Outcome = %v, want %v", k, res.Outcome, NoMatch)
		}
		if m.Awaiting() {
			t.Errorf("k=%d deviation left matcher awaiting", k)
		}
	}
}

func TestFeedEscapeAborts(t *testing.T) {
	forests := map[string]*Forest{
		"plain": buildForest(t, func(b *Builder) {
			mustAdd(t, b, steps(press(symW), press(symA)), cmds("X"))
		}),
		"escape-leaf": buildForest(t, func(b *Builder) {
			mustAdd(t, b, steps(press(symW), Escape), cmds("X"))
		}),
		"escape-root": buildForest(t, func(b *Builder) {
			mustAdd(t, b, steps(Escape, press(symA)), cmds("X"))
		}),
	}
	for name, f := range forests {
		t.Run(name, func(t *testing.T) {
			m := NewMatcher(f, time.Second)
			first := f.RootChords()[0]
			if res := m.Feed(first, epoch); res.Outcome != Advanced {
				t.Fatalf("Outcome = %v, want %v", res.Outcome, Advanced)
			}
			res := m.Feed(Escape, epoch)
			if res.Outcome != Aborted {
				t.Errorf("escape Outcome = %v, want %v", res.Outcome, Aborted)
			}
			if res.Hotkey != nil {
				t.Error("escape produced a hotkey")
			}
			if m.Awaiting() {
				t.Error("escape left matcher awaiting")
			}
		})
	}
}

func TestEscapeNotMatchableFromIdle(t *testing.T) {
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symW), press(symA)), cmds("X"))
	})
	m := NewMatcher(f, time.Second)
	if res := m.Feed(Escape, epoch); res.Outcome != NoMatch {
		t.Errorf("Outcome = %v, want %v", res.Outcome, NoMatch)
	}
}

func TestExpire(t *testing.T) {
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symW), press(symA), press(symB)), cmds("X"))
	})
	m := NewMatcher(f, 3*time.Second)

	m.Feed(press(symW), epoch)
	if m.Expire(epoch.Add(2 * time.Second)) {
		t.Fatal("expired before deadline")
	}

	// Advancing resets the deadline instead of extending it.
	m.Feed(press(symA), epoch.Add(2*time.Second))
	deadline, ok := m.Deadline()
	if !ok || !deadline.Equal(epoch.Add(5*time.Second)) {
		t.Fatalf("Deadline = %v, %v; want %v", deadline, ok, epoch.Add(5*time.Second))
	}
	if m.Expire(epoch.Add(4 * time.Second)) {
		t.Fatal("expired before reset deadline")
	}
	if !m.Expire(epoch.Add(5 * time.Second)) {
		t.Fatal("did not expire at deadline")
	}
	if m.Awaiting() {
		t.Error("matcher awaiting after expiry")
	}
	if m.Expire(epoch.Add(time.Hour)) {
		t.Error("Idle matcher reported expiry")
	}
}

func TestZeroTimeoutNeverExpires(t *testing.T) {
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symW), press(symA)), cmds("X"))
	})
	m := NewMatcher(f, 0)
	m.Feed(press(symW), epoch)
	if _, ok := m.Deadline(); ok {
		t.Error("deadline armed with zero timeout")
	}
	if m.Expire(epoch.Add(24 * time.Hour)) {
		t.Error("expired with zero timeout")
	}
}

func TestIgnoredPolarityKeepsChain(t *testing.T) {
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symW), press(symA)), cmds("X"))
	})
	m := NewMatcher(f, time.Second)
	m.Feed(press(symW), epoch)

	res := m.Feed(release(symW), epoch)
	if res.Outcome != Ignored {
		t.Fatalf("release Outcome = %v, want %v", res.Outcome, Ignored)
	}
	if res.Swallow() {
		t.Error("ignored event must be forwarded")
	}
	if !m.Awaiting() {
		t.Fatal("release aborted the chain")
	}
	if res := m.Feed(press(symA), epoch); res.Outcome != FullMatch {
		t.Errorf("Outcome = %v, want %v", res.Outcome, FullMatch)
	}
}

func TestReleaseChordHoldsPress(t *testing.T) {
	drag := ButtonChord(1, Mod4, Motion)
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(release(symA)), cmds("on release"))
		mustAdd(t, b, steps(drag), cmds("drag {{x}}"))
	})
	m := NewMatcher(f, time.Second)

	res := m.Feed(press(symA), epoch)
	if res.Outcome != Held || !res.Swallow() {
		t.Fatalf("press Outcome = %v (swallow %v), want %v swallowed", res.Outcome, res.Swallow(), Held)
	}
	if m.Awaiting() {
		t.Error("held press armed a chain")
	}
	if res := m.Feed(release(symA), epoch); res.Outcome != FullMatch {
		t.Errorf("release Outcome = %v, want %v", res.Outcome, FullMatch)
	}

	if res := m.Feed(ButtonChord(1, Mod4, Press), epoch); res.Outcome != Held {
		t.Errorf("button press Outcome = %v, want %v", res.Outcome, Held)
	}
	if res := m.Feed(ButtonChord(1, 0, Press), epoch); res.Outcome != NoMatch {
		t.Errorf("unmodified button press Outcome = %v, want %v", res.Outcome, NoMatch)
	}
	if res := m.Feed(drag, epoch); res.Outcome != FullMatch {
		t.Errorf("motion Outcome = %v, want %v", res.Outcome, FullMatch)
	}
}

func TestCycleCommands(t *testing.T) {
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symA)), cmds("c0", "c1", "c2"))
		mustAdd(t, b, steps(press(symB)), cmds("d0", "d1"))
	})
	m := NewMatcher(f, time.Second)

	var got []string
	for i := 0; i < 4; i++ {
		res := m.Feed(press(symA), epoch)
		cmd, _ := res.Hotkey.Next()
		got = append(got, cmd.Text())
		if i == 1 {
			// Unrelated hotkeys never move each other's cursor.
			other := m.Feed(press(symB), epoch)
			other.Hotkey.Next()
		}
	}
	want := []string{"c0", "c1", "c2", "c0"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dispatch %d = %q, want %q", i, got[i], want[i])
		}
	}
	if c := f.Hotkeys()[1].Cursor(); c != 1 {
		t.Errorf("other cursor = %d, want 1", c)
	}
}

func TestScenarioAThenB(t *testing.T) {
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symA), press(symB)), cmds("X"))
	})
	m := NewMatcher(f, time.Second)

	dispatched := 0
	feed := func(c Chord) Outcome {
		res := m.Feed(c, epoch)
		if res.Outcome == FullMatch {
			dispatched++
		}
		return res.Outcome
	}

	feed(press(symA))
	if got := feed(press(symC)); got != NoMatch {
		t.Errorf("[a, c] step 2 = %v, want %v", got, NoMatch)
	}
	if dispatched != 0 {
		t.Errorf("X dispatched %d times after [a, c]", dispatched)
	}

	feed(press(symA))
	if got := feed(press(symB)); got != FullMatch {
		t.Errorf("[a, b] step 2 = %v, want %v", got, FullMatch)
	}
	if dispatched != 1 {
		t.Errorf("X dispatched %d times after [a, b], want 1", dispatched)
	}
}

func TestExpected(t *testing.T) {
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symA)), cmds("A"))
		mustAdd(t, b, steps(press(symW), press(symA)), cmds("WA"))
		mustAdd(t, b, steps(press(symW), press(symB)), cmds("WB"))
	})
	m := NewMatcher(f, time.Second)

	if got := m.Expected(); len(got) != 2 || got[0] != press(symA) || got[1] != press(symW) {
		t.Errorf("Idle Expected = %v, want [a w]", got)
	}
	m.Feed(press(symW), epoch)
	if got := m.Expected(); len(got) != 2 || got[0] != press(symA) || got[1] != press(symB) {
		t.Errorf("awaiting Expected = %v, want [a b]", got)
	}
	m.Reset()
	if got := m.Expected(); len(got) != 2 {
		t.Errorf("Expected after Reset = %v, want roots", got)
	}
}

func TestProgressLabel(t *testing.T) {
	b := NewBuilder()
	mustAdd(t, b, []Step{{Chord: press(symW), Label: "super + w"}, {Chord: press(symA), Label: "a"}}, cmds("X"))
	m := NewMatcher(b.Build(), time.Second)

	res := m.Feed(press(symW), epoch)
	if res.Label != "super + w" || m.Progress() != "super + w" {
		t.Errorf("Label = %q, Progress = %q; want %q", res.Label, m.Progress(), "super + w")
	}
	res = m.Feed(press(symA), epoch)
	if res.Label != "super + w ; a" {
		t.Errorf("Label = %q, want %q", res.Label, "super + w ; a")
	}
	if m.Progress() != "" {
		t.Errorf("Progress after match = %q, want empty", m.Progress())
	}
}

func TestReplaceResets(t *testing.T) {
	f := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symW), press(symA)), cmds("X"))
	})
	m := NewMatcher(f, time.Second)
	m.Feed(press(symW), epoch)

	g := buildForest(t, func(b *Builder) {
		mustAdd(t, b, steps(press(symB)), cmds("Y"))
	})
	m.Replace(g)
	if m.Awaiting() {
		t.Error("Replace kept the in-progress chain")
	}
	if res := m.Feed(press(symA), epoch); res.Outcome != NoMatch {
		t.Errorf("old chain still reachable: %v", res.Outcome)
	}
	if res := m.Feed(press(symB), epoch); res.Outcome != FullMatch {
		t.Errorf("new chain Outcome = %v, want %v", res.Outcome, FullMatch)
	}
}
