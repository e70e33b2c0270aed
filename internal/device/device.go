package device

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/animation"
	"github.com/dokzlo13/stripd/internal/override"
	"github.com/dokzlo13/stripd/internal/pixel"
)

var (
	// ErrUnknownAnimation is returned when a start is requested for a kind that does not animate.
	ErrUnknownAnimation = errors.New("unknown animation")
	// ErrInvalidInterval is returned for a tick interval outside [MinInterval, MaxInterval].
	ErrInvalidInterval = errors.New("invalid tick interval")
)

// Persister writes the state after every transition.
type Persister interface {
	Save(s State) error
}

// Device is the owned context for one strip: state, frame buffer and
// animation phases. It is not safe for concurrent use; a single loop drives it.
type Device struct {
	state      State
	buf        *pixel.Buffer
	phases     *animation.Phases
	store      Persister
	out        pixel.Output
	generation uint64
}

// New creates a dark, Off device for n pixels.
func New(n int, store Persister, out pixel.Output, seed int64) *Device {
	return &Device{
		state:  State{Mode: ModeOff, Interval: DefaultInterval},
		buf:    pixel.NewBuffer(n),
		phases: animation.NewPhases(n, seed),
		store:  store,
		out:    out,
	}
}

// Len returns the strip length.
func (d *Device) Len() int {
	return d.buf.Len()
}

// Snapshot returns a copy of the current state.
func (d *Device) Snapshot() State {
	return d.state.Clone()
}

// Mode returns the active mode.
func (d *Device) Mode() Mode {
	return d.state.Mode
}

// Kind returns the running animation kind.
func (d *Device) Kind() animation.Kind {
	return d.state.Kind
}

// Color returns the base colour.
func (d *Device) Color() pixel.Color {
	return d.state.Color
}

// Interval returns the animation tick interval in milliseconds.
func (d *Device) Interval() uint16 {
	return d.state.Interval
}

// Buffer exposes the frame buffer to the render engine.
func (d *Device) Buffer() *pixel.Buffer {
	return d.buf
}

// Phases exposes the phase store to the render engine.
func (d *Device) Phases() *animation.Phases {
	return d.phases
}

// Output returns the frame sink.
func (d *Device) Output() pixel.Output {
	return d.out
}

// Generation changes on every transition so the render engine can tell a
// fresh start from a running animation.
func (d *Device) Generation() uint64 {
	return d.generation
}

// TurnOn shows a uniform colour.
func (d *Device) TurnOn(c pixel.Color) error {
	d.state = State{Mode: ModeStaticColor, Color: c, Interval: d.state.Interval}
	d.buf.Fill(c)
	d.commit()
	return nil
}

// TurnOff darkens the strip.
func (d *Device) TurnOff() error {
	d.state = State{Mode: ModeOff, Color: d.state.Color, Interval: d.state.Interval}
	d.buf.Clear()
	d.commit()
	return nil
}

// StartAnimation switches to an animation. Starting the kind that is already
// running restarts it from its initial phase. No frame is rendered here; the
// next render tick produces the first one.
func (d *Device) StartAnimation(kind animation.Kind, c pixel.Color, interval uint16) error {
	if !kind.Animated() {
		return fmt.Errorf("%w: %d", ErrUnknownAnimation, kind)
	}
	if interval < MinInterval || interval > MaxInterval {
		return fmt.Errorf("%w: %d ms", ErrInvalidInterval, interval)
	}

	d.phases.Reset(kind)
	d.state = State{Mode: ModeAnimation, Color: c, Kind: kind, Interval: interval}
	d.generation++
	d.persist()

	log.Debug().
		Str("kind", kind.String()).
		Str("color", c.String()).
		Uint16("interval_ms", interval).
		Msg("Animation started")
	return nil
}

// ApplyOverrides replaces the override table with entries. Indices and
// channels are clamped; later entries for the same index win.
func (d *Device) ApplyOverrides(entries []override.Entry) error {
	table := make(map[int]pixel.Color, len(entries))
	d.buf.Clear()
	for _, e := range entries {
		i := override.ClampIndex(e.Index, d.buf.Len())
		table[i] = e.Color
		d.buf.Set(i, e.Color)
	}

	d.state = State{Mode: ModePixelOverride, Color: d.state.Color, Interval: d.state.Interval, Overrides: table}
	d.commit()
	return nil
}

// ResetToDefault applies the fixed default pattern.
func (d *Device) ResetToDefault() error {
	d.state = DefaultState()
	d.paintDefault()
	d.commit()
	return nil
}

// Restore applies a state loaded from storage without writing it back.
func (d *Device) Restore(s State) {
	s = s.Clone()
	switch s.Mode {
	case ModeStaticColor:
		s.Kind, s.Overrides = animation.None, nil
		d.buf.Fill(s.Color)
	case ModeAnimation:
		s.Overrides = nil
		if !s.Kind.Animated() {
			s.Kind = animation.None
		}
		d.phases.Reset(s.Kind)
		d.buf.Clear()
	case ModePixelOverride:
		s.Kind = animation.None
		d.buf.Clear()
		for i, c := range s.Overrides {
			d.buf.Set(i, c)
		}
	case ModeDefault:
		s.Kind, s.Overrides = animation.None, nil
		d.paintDefault()
	default:
		s.Mode, s.Kind, s.Overrides = ModeOff, animation.None, nil
		d.buf.Clear()
	}
	if s.Interval < MinInterval || s.Interval > MaxInterval {
		s.Interval = DefaultInterval
	}

	d.state = s
	d.generation++
	d.flush()

	log.Info().
		Str("mode", s.Mode.String()).
		Str("kind", s.Kind.String()).
		Int("overrides", len(s.Overrides)).
		Msg("Device state restored")
}

func (d *Device) paintDefault() {
	d.buf.Clear()
	for i := 0; i < DefaultLit && i < d.buf.Len(); i++ {
		d.buf.Set(i, DefaultColor)
	}
}

// commit finishes a static transition: show the frame and persist.
func (d *Device) commit() {
	d.generation++
	d.flush()
	d.persist()
}

func (d *Device) flush() {
	if err := d.buf.Flush(d.out); err != nil {
		log.Warn().Err(err).Msg("Failed to flush frame")
	}
}

func (d *Device) persist() {
	if d.store == nil {
		return
	}
	if err := d.store.Save(d.state); err != nil {
		log.Warn().Err(err).Str("mode", d.state.Mode.String()).Msg("Failed to persist state")
	}
}
