// Package device owns the single source of truth for what the strip shows and
// the transitions between rendering modes.
package device

import (
	"github.com/dokzlo13/stripd/internal/animation"
	"github.com/dokzlo13/stripd/internal/pixel"
)

// Mode is the rendering owner of the pixel buffer.
type Mode uint8

const (
	ModeOff Mode = iota
	ModeStaticColor
	ModeAnimation
	ModePixelOverride
	// ModeDefault is the StaticColor variant used for the cold-start pattern.
	ModeDefault
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeStaticColor:
		return "static_color"
	case ModeAnimation:
		return "animation"
	case ModePixelOverride:
		return "pixel_override"
	case ModeDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Tick interval bounds in milliseconds.
const (
	MinInterval     = 1
	MaxInterval     = 1000
	DefaultInterval = 50
)

// Cold-start pattern: the first DefaultLit pixels in DefaultColor.
const DefaultLit = 5

// DefaultColor is the warm white used by the default pattern.
var DefaultColor = pixel.Color{R: 255, G: 156, B: 100}

// State is the persisted view of the device.
type State struct {
	Mode      Mode
	Color     pixel.Color
	Kind      animation.Kind
	Interval  uint16
	Overrides map[int]pixel.Color
}

// DefaultState returns the fallback state applied when storage holds nothing valid.
func DefaultState() State {
	return State{
		Mode:     ModeDefault,
		Color:    DefaultColor,
		Kind:     animation.None,
		Interval: DefaultInterval,
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := s
	if s.Overrides != nil {
		c.Overrides = make(map[int]pixel.Color, len(s.Overrides))
		for i, col := range s.Overrides {
			c.Overrides[i] = col
		}
	}
	return c
}

// Equal compares two states, treating nil and empty override tables alike.
func (s State) Equal(o State) bool {
	if s.Mode != o.Mode || s.Color != o.Color || s.Kind != o.Kind || s.Interval != o.Interval {
		return false
	}
	if len(s.Overrides) != len(o.Overrides) {
		return false
	}
	for i, c := range s.Overrides {
		if oc, ok := o.Overrides[i]; !ok || oc != c {
			return false
		}
	}
	return true
}

// Exclusive reports whether the mode-exclusivity invariant holds: overrides
// only in PixelOverride, an animation kind only in Animation.
func (s State) Exclusive() bool {
	if len(s.Overrides) > 0 && s.Mode != ModePixelOverride {
		return false
	}
	if s.Kind != animation.None && s.Mode != ModeAnimation {
		return false
	}
	return !(len(s.Overrides) > 0 && s.Kind != animation.None)
}
