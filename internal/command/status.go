package command

import (
	"sort"

	"github.com/dokzlo13/stripd/internal/device"
)

// StatusReply is the JSON view of the device state.
type StatusReply struct {
	Mode       string          `json:"mode"`
	Color      string          `json:"color"`
	Animation  string          `json:"animation,omitempty"`
	IntervalMs uint16          `json:"interval_ms"`
	Leds       int             `json:"leds"`
	Overrides  []PixelOverride `json:"overrides,omitempty"`
}

// PixelOverride is one entry of the override table.
type PixelOverride struct {
	Index int    `json:"index"`
	Color string `json:"color"`
}

// NewStatus captures the current state of d.
func NewStatus(d *device.Device) StatusReply {
	s := d.Snapshot()
	reply := StatusReply{
		Mode:       s.Mode.String(),
		Color:      s.Color.String(),
		IntervalMs: s.Interval,
		Leds:       d.Len(),
	}
	if s.Mode == device.ModeAnimation {
		reply.Animation = s.Kind.String()
	}
	for i, c := range s.Overrides {
		reply.Overrides = append(reply.Overrides, PixelOverride{Index: i, Color: c.String()})
	}
	sort.Slice(reply.Overrides, func(a, b int) bool {
		return reply.Overrides[a].Index < reply.Overrides[b].Index
	})
	return reply
}
