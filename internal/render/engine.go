package render

import (
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/animation"
	"github.com/dokzlo13/stripd/internal/device"
)

// Options tunes the strobe durations, which replace the shared tick interval
// for that kind.
type Options struct {
	StrobeOnMs  uint32
	StrobeOffMs uint32
}

// DefaultOptions returns the stock strobe timing.
func DefaultOptions() Options {
	return Options{
		StrobeOnMs:  animation.DefaultStrobeOnMs,
		StrobeOffMs: animation.DefaultStrobeOffMs,
	}
}

// Engine advances at most one animation frame per Tick.
type Engine struct {
	opts       Options
	gate       Gate
	generation uint64

	// OnFrame, when set, is called after every rendered frame.
	OnFrame func(kind animation.Kind)
}

// NewEngine creates an engine.
func NewEngine(opts Options) *Engine {
	if opts.StrobeOnMs == 0 {
		opts.StrobeOnMs = animation.DefaultStrobeOnMs
	}
	if opts.StrobeOffMs == 0 {
		opts.StrobeOffMs = animation.DefaultStrobeOffMs
	}
	return &Engine{opts: opts}
}

// Tick renders the next frame of d's animation when it is due and reports
// whether a frame was produced. It never blocks.
func (e *Engine) Tick(d *device.Device, now uint32) bool {
	if d.Mode() != device.ModeAnimation {
		return false
	}

	// A transition happened since the last tick: the first frame is due now.
	if gen := d.Generation(); gen != e.generation {
		e.generation = gen
		e.gate.Disarm()
	}

	kind := d.Kind()
	if !e.gate.Due(now, e.interval(d)) {
		return false
	}
	if !d.Phases().Advance(kind, d.Buffer(), d.Color()) {
		return false
	}
	e.gate.Mark(now)

	if err := d.Buffer().Flush(d.Output()); err != nil {
		log.Warn().Err(err).Str("kind", kind.String()).Msg("Failed to flush animation frame")
	}
	if e.OnFrame != nil {
		e.OnFrame(kind)
	}
	return true
}

// interval returns how long the current frame must stay up. Strobe holds its
// lit frame for the on-time and its dark frame for the off-time.
func (e *Engine) interval(d *device.Device) uint32 {
	if d.Kind() == animation.Strobe {
		if d.Phases().Strobe.On {
			return e.opts.StrobeOnMs
		}
		return e.opts.StrobeOffMs
	}
	return uint32(d.Interval())
}
