package app

import (
	"testing"
	"time"
)

func TestClockCountdownFloorsAtZero(t *testing.T) {
	c := NewClock(2 * time.Second)
	c.Countdown(1500 * time.Millisecond)
	if c.Expired() {
		t.Fatalf("clock expired early at %v", c.Time())
	}
	c.Countdown(time.Second)
	if c.Time() != 0 {
		t.Fatalf("expected 0, got %v", c.Time())
	}
	if !c.Expired() {
		t.Fatalf("expected expired clock")
	}

	c.Reset(30 * time.Second)
	if c.Time() != 30*time.Second || c.Expired() {
		t.Fatalf("reset failed: %v", c.Time())
	}
}

func TestClockFormatting(t *testing.T) {
	tests := []struct {
		value time.Duration
		want  string
	}{
		{value: 0, want: "0"},
		{value: 29400 * time.Millisecond, want: "29"},
		{value: 29600 * time.Millisecond, want: "30"},
		{value: 2500 * time.Millisecond, want: "2"},
		{value: 3500 * time.Millisecond, want: "4"},
	}
	for _, tt := range tests {
		if got := NewClock(tt.value).Formatted(); got != tt.want {
			t.Errorf("Formatted(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}

	total := NewClock(0)
	total.Advance(time.Hour + 2*time.Minute + 3500*time.Millisecond)
	if got := total.HHMMSS(); got != "01:02:03" {
		t.Fatalf("HHMMSS = %q", got)
	}
}
