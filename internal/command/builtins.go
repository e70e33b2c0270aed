package command

import (
	"fmt"

	"github.com/dokzlo13/stripd/internal/animation"
	"github.com/dokzlo13/stripd/internal/device"
	"github.com/dokzlo13/stripd/internal/override"
	"github.com/dokzlo13/stripd/internal/pixel"
)

// Built-in command names. They double as the HTTP paths the desktop client
// calls.
const (
	LedOn     = "ledOn"
	LedOff    = "ledOff"
	Animation = "animation"
	SingleLED = "singleLED"
	Default   = "default"
	Status    = "status"
	Num       = "num"
	Mac       = "mac"
)

// OverrideReply reports what a singleLED command applied.
type OverrideReply struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// RegisterBuiltins registers the device commands. identity is returned by
// the mac command so clients can tell strips apart.
func RegisterBuiltins(r *Registry, identity string) error {
	builtins := []struct {
		name string
		fn   func(d *device.Device, args Args) (any, error)
	}{
		{LedOn, ledOn},
		{LedOff, ledOff},
		{Animation, startAnimation},
		{SingleLED, singleLED},
		{Default, resetToDefault},
		{Status, status},
		{Num, num},
		{Mac, func(*device.Device, Args) (any, error) { return identity, nil }},
	}
	for _, b := range builtins {
		if err := r.RegisterSimple(b.name, b.fn); err != nil {
			return err
		}
	}
	return nil
}

// ReadOnly reports whether the named command leaves device state untouched.
func ReadOnly(name string) bool {
	switch name {
	case Status, Num, Mac:
		return true
	}
	return false
}

func ledOn(d *device.Device, args Args) (any, error) {
	c, err := colorArgs(args)
	if err != nil {
		return nil, err
	}
	if err := d.TurnOn(c); err != nil {
		return nil, err
	}
	return NewStatus(d), nil
}

func ledOff(d *device.Device, _ Args) (any, error) {
	if err := d.TurnOff(); err != nil {
		return nil, err
	}
	return NewStatus(d), nil
}

func startAnimation(d *device.Device, args Args) (any, error) {
	name, err := args.String("type")
	if err != nil {
		return nil, err
	}
	kind, ok := animation.ParseKind(name)
	if !ok || !kind.Animated() {
		return nil, fmt.Errorf("%w: type=%q", ErrOutOfRange, name)
	}
	c, err := colorArgs(args)
	if err != nil {
		return nil, err
	}
	delay, err := args.Int("delay", device.MinInterval, device.MaxInterval)
	if err != nil {
		return nil, err
	}

	if err := d.StartAnimation(kind, c, uint16(delay)); err != nil {
		return nil, err
	}
	return NewStatus(d), nil
}

func singleLED(d *device.Device, args Args) (any, error) {
	raw, err := args.String(SingleLED)
	if err != nil {
		return nil, err
	}
	res := override.Parse(raw, d.Len())
	if len(res.Entries) == 0 && res.Skipped > 0 {
		return nil, fmt.Errorf("%w: %s has no complete tuple", ErrOutOfRange, SingleLED)
	}
	if err := d.ApplyOverrides(res.Entries); err != nil {
		return nil, err
	}
	return OverrideReply{Applied: len(res.Entries), Skipped: res.Skipped}, nil
}

func resetToDefault(d *device.Device, _ Args) (any, error) {
	if err := d.ResetToDefault(); err != nil {
		return nil, err
	}
	return NewStatus(d), nil
}

func status(d *device.Device, _ Args) (any, error) {
	return NewStatus(d), nil
}

func num(d *device.Device, _ Args) (any, error) {
	return d.Len(), nil
}

// colorArgs validates all three channels before any is used, so a bad
// channel never leaves a partial change behind.
func colorArgs(args Args) (pixel.Color, error) {
	var ch [3]uint8
	for i, name := range []string{"r", "g", "b"} {
		v, err := args.Int(name, 0, 255)
		if err != nil {
			return pixel.Color{}, err
		}
		ch[i] = uint8(v)
	}
	return pixel.Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}
