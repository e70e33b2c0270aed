package render

import (
	"math"
	"testing"

	"github.com/dokzlo13/stripd/internal/animation"
	"github.com/dokzlo13/stripd/internal/device"
	"github.com/dokzlo13/stripd/internal/pixel"
)

type countingOutput struct {
	frames int
}

func (o *countingOutput) Write([]pixel.Color) error {
	o.frames++
	return nil
}

var blue = pixel.Color{B: 255}

func TestGate_WraparoundSafe(t *testing.T) {
	var g Gate
	start := uint32(math.MaxUint32 - 10)
	g.Mark(start)

	if g.Due(start+5, 20) {
		t.Error("gate due after 5ms with 20ms interval")
	}
	// start+25 wraps past zero.
	if !g.Due(start+25, 20) {
		t.Error("gate not due after 25ms across wraparound")
	}
}

func TestGate_UnarmedIsDue(t *testing.T) {
	var g Gate
	if !g.Due(0, 1000) {
		t.Error("unarmed gate should be due")
	}
	g.Mark(0)
	g.Disarm()
	if !g.Due(1, 1000) {
		t.Error("disarmed gate should be due")
	}
}

func TestEngine_NoopOutsideAnimation(t *testing.T) {
	out := &countingOutput{}
	d := device.New(5, nil, out, 1)
	e := NewEngine(DefaultOptions())

	_ = d.TurnOn(blue)
	before := out.frames
	for now := uint32(0); now < 1000; now += 10 {
		if e.Tick(d, now) {
			t.Fatal("Tick() rendered outside animation mode")
		}
	}
	if out.frames != before {
		t.Errorf("frames = %d, want %d", out.frames, before)
	}
}

func TestEngine_RespectsInterval(t *testing.T) {
	out := &countingOutput{}
	d := device.New(5, nil, out, 1)
	e := NewEngine(DefaultOptions())
	clock := &ManualClock{Now: 100}

	if err := d.StartAnimation(animation.Chase, blue, 30); err != nil {
		t.Fatal(err)
	}
	if out.frames != 0 {
		t.Fatalf("StartAnimation rendered %d frames, want 0", out.frames)
	}

	if !e.Tick(d, clock.Millis()) {
		t.Fatal("first tick after start should render")
	}
	clock.Advance(29)
	if e.Tick(d, clock.Millis()) {
		t.Fatal("tick before interval elapsed should not render")
	}
	clock.Advance(1)
	if !e.Tick(d, clock.Millis()) {
		t.Fatal("tick at interval should render")
	}
	if out.frames != 2 {
		t.Errorf("frames = %d, want 2", out.frames)
	}
}

func TestEngine_ChaseInvariant(t *testing.T) {
	const n = 6
	d := device.New(n, nil, &countingOutput{}, 1)
	e := NewEngine(DefaultOptions())
	clock := &ManualClock{Now: math.MaxUint32 - 50}

	if err := d.StartAnimation(animation.Chase, blue, 10); err != nil {
		t.Fatal(err)
	}
	for k := 1; k <= 20; k++ {
		if !e.Tick(d, clock.Millis()) {
			t.Fatalf("tick %d did not render", k)
		}
		if got := d.Phases().Chase.Position; got != k%n {
			t.Fatalf("after %d ticks position = %d, want %d", k, got, k%n)
		}
		clock.Advance(10)
	}
}

func TestEngine_StrobeUsesOwnDurations(t *testing.T) {
	d := device.New(3, nil, &countingOutput{}, 1)
	e := NewEngine(Options{StrobeOnMs: 20, StrobeOffMs: 100})
	clock := &ManualClock{}

	if err := d.StartAnimation(animation.Strobe, blue, 1); err != nil {
		t.Fatal(err)
	}
	if !e.Tick(d, clock.Millis()) || !d.Phases().Strobe.On {
		t.Fatal("first strobe frame should be lit")
	}
	clock.Advance(19)
	if e.Tick(d, clock.Millis()) {
		t.Fatal("lit frame ended before on-time")
	}
	clock.Advance(1)
	if !e.Tick(d, clock.Millis()) || d.Phases().Strobe.On {
		t.Fatal("strobe should go dark after on-time")
	}
	clock.Advance(99)
	if e.Tick(d, clock.Millis()) {
		t.Fatal("dark frame ended before off-time")
	}
	clock.Advance(1)
	if !e.Tick(d, clock.Millis()) {
		t.Fatal("strobe should light again after off-time")
	}
}

func TestEngine_RestartRendersImmediately(t *testing.T) {
	d := device.New(4, nil, &countingOutput{}, 1)
	e := NewEngine(DefaultOptions())

	if err := d.StartAnimation(animation.Chase, blue, 1000); err != nil {
		t.Fatal(err)
	}
	e.Tick(d, 0)
	e.Tick(d, 1000)
	if d.Phases().Chase.Position != 2 {
		t.Fatalf("position = %d, want 2", d.Phases().Chase.Position)
	}

	if err := d.StartAnimation(animation.Chase, blue, 1000); err != nil {
		t.Fatal(err)
	}
	if d.Phases().Chase.Position != 0 {
		t.Fatalf("restart did not reset phase, position = %d", d.Phases().Chase.Position)
	}
	if !e.Tick(d, 1001) {
		t.Fatal("restart should render on the next tick regardless of interval")
	}
}

func TestEngine_UnknownKindIsInert(t *testing.T) {
	out := &countingOutput{}
	d := device.New(4, nil, out, 1)
	d.Restore(device.State{Mode: device.ModeAnimation, Kind: animation.Kind(42), Interval: 10})
	e := NewEngine(DefaultOptions())

	before := out.frames
	if e.Tick(d, 0) {
		t.Error("Tick() rendered an unknown kind")
	}
	if out.frames != before {
		t.Error("unknown kind must not flush frames")
	}
}
