package app

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Clock is a mutable time counter. The round keeps two: one counting the
// total round duration up, one counting each question down.
type Clock struct {
	value time.Duration
}

// NewClock returns a clock starting at initial.
func NewClock(initial time.Duration) *Clock {
	return &Clock{value: initial}
}

// Advance increases the clock by d.
func (c *Clock) Advance(d time.Duration) {
	c.value += d
}

// Countdown decreases the clock by d, never below zero.
func (c *Clock) Countdown(d time.Duration) {
	c.value -= d
	if c.value < 0 {
		c.value = 0
	}
}

// Reset sets the clock to a new duration.
func (c *Clock) Reset(d time.Duration) {
	c.value = d
}

// Time returns the current value.
func (c *Clock) Time() time.Duration {
	return c.value
}

// Expired reports whether a countdown reached zero.
func (c *Clock) Expired() bool {
	return c.value <= 0
}

// Formatted renders whole seconds, rounding halves to even.
func (c *Clock) Formatted() string {
	return strconv.FormatInt(int64(math.RoundToEven(c.value.Seconds())), 10)
}

// HHMMSS renders the value as hours:minutes:seconds.
func (c *Clock) HHMMSS() string {
	total := int64(c.value / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
