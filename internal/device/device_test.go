package device_test

import (
	"errors"
	"testing"

	"github.com/dokzlo13/stripd/internal/animation"
	"github.com/dokzlo13/stripd/internal/device"
	"github.com/dokzlo13/stripd/internal/nvram"
	"github.com/dokzlo13/stripd/internal/override"
	"github.com/dokzlo13/stripd/internal/persist"
	"github.com/dokzlo13/stripd/internal/pixel"
)

const strip = 10

var (
	red   = pixel.Color{R: 255}
	green = pixel.Color{G: 255}
)

func newDevice(t *testing.T) (*device.Device, *persist.Store, *nvram.Memory) {
	t.Helper()
	nv := nvram.NewMemory(persist.RegionSize(strip))
	store, err := persist.NewStore(nv, strip)
	if err != nil {
		t.Fatal(err)
	}
	return device.New(strip, store, nil, 1), store, nv
}

func frame(d *device.Device) []pixel.Color {
	return d.Buffer().Frame()
}

func TestTransitions_ModeExclusivity(t *testing.T) {
	d, _, _ := newDevice(t)

	steps := []struct {
		name string
		run  func() error
		mode device.Mode
	}{
		{"animation", func() error { return d.StartAnimation(animation.Rainbow, red, 20) }, device.ModeAnimation},
		{"overrides", func() error {
			return d.ApplyOverrides([]override.Entry{{Index: 1, Color: red}})
		}, device.ModePixelOverride},
		{"animation_after_overrides", func() error { return d.StartAnimation(animation.Pulse, red, 20) }, device.ModeAnimation},
		{"on", func() error { return d.TurnOn(green) }, device.ModeStaticColor},
		{"overrides_again", func() error {
			return d.ApplyOverrides([]override.Entry{{Index: 2, Color: green}})
		}, device.ModePixelOverride},
		{"off", d.TurnOff, device.ModeOff},
		{"default", d.ResetToDefault, device.ModeDefault},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: error = %v", step.name, err)
		}
		s := d.Snapshot()
		if s.Mode != step.mode {
			t.Errorf("%s: mode = %v, want %v", step.name, s.Mode, step.mode)
		}
		if !s.Exclusive() {
			t.Errorf("%s: state %+v violates mode exclusivity", step.name, s)
		}
	}
}

func TestTurnOn_FillsAndPersists(t *testing.T) {
	d, store, _ := newDevice(t)
	if err := d.TurnOn(green); err != nil {
		t.Fatal(err)
	}
	for i, c := range frame(d) {
		if c != green {
			t.Fatalf("pixel %d = %v, want %v", i, c, green)
		}
	}
	got, ok := store.Load()
	if !ok || got.Mode != device.ModeStaticColor || got.Color != green {
		t.Errorf("persisted %+v, %v", got, ok)
	}
}

func TestTurnOff_ClearsBuffer(t *testing.T) {
	d, _, _ := newDevice(t)
	_ = d.TurnOn(green)
	if err := d.TurnOff(); err != nil {
		t.Fatal(err)
	}
	for i, c := range frame(d) {
		if !c.IsBlack() {
			t.Fatalf("pixel %d = %v, want black", i, c)
		}
	}
}

func TestApplyOverrides_ParsedCommand(t *testing.T) {
	d, store, _ := newDevice(t)
	_ = d.StartAnimation(animation.Chase, green, 10)

	res := override.Parse("(0,255,0,0)(5,0,255,0)", strip)
	if err := d.ApplyOverrides(res.Entries); err != nil {
		t.Fatal(err)
	}

	f := frame(d)
	for i, c := range f {
		switch i {
		case 0:
			if c != red {
				t.Errorf("pixel 0 = %v, want %v", c, red)
			}
		case 5:
			if c != green {
				t.Errorf("pixel 5 = %v, want %v", c, green)
			}
		default:
			if !c.IsBlack() {
				t.Errorf("pixel %d = %v, want black", i, c)
			}
		}
	}

	s := d.Snapshot()
	if s.Mode != device.ModePixelOverride || s.Kind != animation.None || len(s.Overrides) != 2 {
		t.Errorf("state = %+v", s)
	}
	if got, ok := store.Load(); !ok || !got.Equal(s) {
		t.Errorf("persisted %+v, want %+v", got, s)
	}
}

func TestApplyOverrides_ReplacesPreviousTable(t *testing.T) {
	d, _, _ := newDevice(t)
	_ = d.ApplyOverrides([]override.Entry{{Index: 3, Color: red}})
	_ = d.ApplyOverrides([]override.Entry{{Index: 4, Color: green}})

	s := d.Snapshot()
	if _, ok := s.Overrides[3]; ok {
		t.Error("stale override for pixel 3 leaked into new table")
	}
	if !d.Buffer().At(3).IsBlack() {
		t.Error("stale override pixel 3 still lit")
	}
}

func TestStartAnimation_InvalidLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		kind     animation.Kind
		interval uint16
		want     error
	}{
		{"none_kind", animation.None, 10, device.ErrUnknownAnimation},
		{"unknown_kind", animation.Kind(77), 10, device.ErrUnknownAnimation},
		{"interval_zero", animation.Rainbow, 0, device.ErrInvalidInterval},
		{"interval_too_big", animation.Rainbow, 1001, device.ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, nv := newDevice(t)
			_ = d.ApplyOverrides([]override.Entry{{Index: 2, Color: red}})
			before, beforeFrame, commits := d.Snapshot(), frame(d), nv.Commits()

			err := d.StartAnimation(tt.kind, green, tt.interval)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if !d.Snapshot().Equal(before) {
				t.Error("state changed after failed StartAnimation")
			}
			after := frame(d)
			for i := range after {
				if after[i] != beforeFrame[i] {
					t.Fatalf("pixel %d changed after failed StartAnimation", i)
				}
			}
			if nv.Commits() != commits {
				t.Error("failed StartAnimation committed storage")
			}
		})
	}
}

func TestResetToDefault_Pattern(t *testing.T) {
	d, _, _ := newDevice(t)
	_ = d.TurnOn(green)
	if err := d.ResetToDefault(); err != nil {
		t.Fatal(err)
	}
	for i, c := range frame(d) {
		want := pixel.Black
		if i < device.DefaultLit {
			want = device.DefaultColor
		}
		if c != want {
			t.Errorf("pixel %d = %v, want %v", i, c, want)
		}
	}
}

func TestColdStart_InvalidMarkerFallsBackToDefault(t *testing.T) {
	d, store, _ := newDevice(t)

	if _, ok := store.Load(); ok {
		t.Fatal("fresh storage should not hold a record")
	}
	d.Restore(device.DefaultState())

	if d.Mode() != device.ModeDefault {
		t.Errorf("mode = %v, want default", d.Mode())
	}
	lit := 0
	for i, c := range frame(d) {
		if !c.IsBlack() {
			lit++
			if i >= device.DefaultLit || c != device.DefaultColor {
				t.Errorf("pixel %d = %v unexpected", i, c)
			}
		}
	}
	if lit != device.DefaultLit {
		t.Errorf("lit = %d, want %d", lit, device.DefaultLit)
	}
}

func TestRestore_DoesNotPersist(t *testing.T) {
	d, _, nv := newDevice(t)
	d.Restore(device.State{Mode: device.ModeStaticColor, Color: red, Interval: 10})
	if nv.Commits() != 0 {
		t.Errorf("Restore committed %d times", nv.Commits())
	}
	if d.Buffer().At(0) != red {
		t.Errorf("pixel 0 = %v, want %v", d.Buffer().At(0), red)
	}
}

func TestSaveLoadThroughDevice(t *testing.T) {
	d, _, nv := newDevice(t)
	_ = d.StartAnimation(animation.Raindrop, red, 250)
	want := d.Snapshot()

	store, err := persist.NewStore(nv.Reopen(), strip)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := store.Load()
	if !ok || !got.Equal(want) {
		t.Fatalf("Load() = %+v, %v; want %+v", got, ok, want)
	}

	fresh := device.New(strip, store, nil, 2)
	fresh.Restore(got)
	if !fresh.Snapshot().Equal(want) {
		t.Errorf("restored %+v, want %+v", fresh.Snapshot(), want)
	}
}
