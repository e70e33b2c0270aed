// Package render advances the running animation from the cooperative loop.
package render

import "time"

// Clock supplies a monotonically increasing millisecond counter that wraps
// at 2^32. Only differences between two readings are meaningful.
type Clock interface {
	Millis() uint32
}

// SystemClock counts milliseconds since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock starting at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Millis returns the elapsed milliseconds truncated to 32 bits.
func (c *SystemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// ManualClock is advanced explicitly.
type ManualClock struct {
	Now uint32
}

// Millis returns the current reading.
func (c *ManualClock) Millis() uint32 {
	return c.Now
}

// Advance moves the clock forward by ms, wrapping like the hardware counter.
func (c *ManualClock) Advance(ms uint32) {
	c.Now += ms
}
