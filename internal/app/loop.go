package app

import (
	"context"
	"time"

	"github.com/dokzlo13/stripd/internal/command"
	"github.com/dokzlo13/stripd/internal/device"
	"github.com/dokzlo13/stripd/internal/metrics"
	"github.com/dokzlo13/stripd/internal/render"
)

var modeNames = []string{
	device.ModeOff.String(),
	device.ModeStaticColor.String(),
	device.ModeAnimation.String(),
	device.ModePixelOverride.String(),
	device.ModeDefault.String(),
}

// Loop is the single goroutine that owns the device. Each iteration runs
// at most one queued command, then gives the render engine one tick.
type Loop struct {
	queue    *command.Queue
	invoker  *command.Invoker
	engine   *render.Engine
	device   *device.Device
	clock    render.Clock
	interval time.Duration

	// boot runs once on the loop goroutine before the first iteration.
	boot func()
}

// NewLoop creates a loop pausing interval between iterations.
func NewLoop(q *command.Queue, inv *command.Invoker, e *render.Engine, d *device.Device, clock render.Clock, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Loop{
		queue:    q,
		invoker:  inv,
		engine:   e,
		device:   d,
		clock:    clock,
		interval: interval,
	}
}

// Step runs one iteration and reports whether a command was handled and
// whether a frame was rendered.
func (l *Loop) Step() (handled, rendered bool) {
	if handled = l.queue.Poll(l.invoker); handled {
		metrics.SetMode(l.device.Mode().String(), modeNames)
	}
	rendered = l.engine.Tick(l.device, l.clock.Millis())
	metrics.SetQueued(l.queue.Len())
	return handled, rendered
}

// Run iterates until ctx is cancelled, then closes the queue.
func (l *Loop) Run(ctx context.Context) {
	defer l.queue.Close()

	if l.boot != nil {
		l.boot()
	}
	metrics.SetMode(l.device.Mode().String(), modeNames)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		l.Step()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
