package chain

import (
	"testing"
	"time"
)

func TestMotionLimiter(t *testing.T) {
	tests := []struct {
		name  string
		times []uint32
		want  []bool
	}{
		{"10ms apart", []uint32{1000, 1010}, []bool{true, false}},
		{"60ms apart", []uint32{1000, 1060}, []bool{true, true}},
		{"drop does not move the window", []uint32{1000, 1030, 1050}, []bool{true, false, true}},
		{"first event at small timestamp", []uint32{5}, []bool{true}},
		{"timestamp wraparound", []uint32{0xfffffff0, 0x00000030}, []bool{true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &MotionLimiter{Interval: 50 * time.Millisecond}
			for i, ts := range tt.times {
				if got := l.Allow(ts); got != tt.want[i] {
					t.Errorf("Allow(%d) = %v, want %v", ts, got, tt.want[i])
				}
			}
		})
	}
}

func TestMotionLimiterDisabled(t *testing.T) {
	l := NewMotionLimiter(0)
	for _, ts := range []uint32{1, 1, 2, 2} {
		if !l.Allow(ts) {
			t.Fatalf("Allow(%d) = false with limiting disabled", ts)
		}
	}
}

func TestNewMotionLimiterInterval(t *testing.T) {
	if got := NewMotionLimiter(20).Interval; got != 50*time.Millisecond {
		t.Errorf("Interval = %v, want 50ms", got)
	}
}

func TestMotionButton(t *testing.T) {
	tests := []struct {
		buttons uint16
		want    Button
	}{
		{0x01, 1},
		{0x02, 2},
		{0x06, 2},
		{0x08, 4},
		{0x10, 5},
		{0x00, 5},
	}
	for _, tt := range tests {
		if got := MotionButton(tt.buttons); got != tt.want {
			t.Errorf("MotionButton(%#x) = %d, want %d", tt.buttons, got, tt.want)
		}
	}
}
