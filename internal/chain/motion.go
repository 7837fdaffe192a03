package chain

import "time"

// MotionLimiter drops pointer motion events that arrive sooner than Interval
// after the last accepted one. Timestamps are X server milliseconds and may
// wrap around.
type MotionLimiter struct {
	Interval time.Duration

	last   uint32
	primed bool
}

// NewMotionLimiter builds a limiter from a maximum frequency in Hz. Zero
// disables limiting.
func NewMotionLimiter(maxFreq uint) *MotionLimiter {
	l := &MotionLimiter{}
	if maxFreq > 0 {
		l.Interval = time.Second / time.Duration(maxFreq)
	}
	return l
}

// Allow reports whether a motion event stamped ts should be processed and, if
// so, records it as the last accepted event.
func (l *MotionLimiter) Allow(ts uint32) bool {
	if l.Interval > 0 && l.primed {
		elapsed := time.Duration(ts-l.last) * time.Millisecond
		if elapsed < l.Interval {
			return false
		}
	}
	l.last = ts
	l.primed = true
	return true
}

// MotionButton picks the button a motion chord is keyed on from the pressed
// buttons bitfield (bit 0 = button 1): the lowest pressed button, or button 5
// when none of buttons 1 to 4 is down.
func MotionButton(buttons uint16) Button {
	b := Button(1)
	for buttons&1 == 0 && b < 5 {
		buttons >>= 1
		b++
	}
	return b
}
