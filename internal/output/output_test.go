package output

import (
	"errors"
	"testing"

	"github.com/dokzlo13/stripd/internal/pixel"
)

type recordSink struct {
	frames [][]pixel.Color
	err    error
	closed bool
}

func (r *recordSink) Write(frame []pixel.Color) error {
	r.frames = append(r.frames, append([]pixel.Color(nil), frame...))
	return r.err
}

func (r *recordSink) Close() error {
	r.closed = true
	return nil
}

func TestMulti_WritesAllSinks(t *testing.T) {
	failing := &recordSink{err: errors.New("unplugged")}
	ok := &recordSink{}
	m := NewMulti(failing, ok)

	frame := []pixel.Color{{R: 1}, {G: 2}}
	err := m.Write(frame)
	if err == nil {
		t.Fatal("Write() error = nil, want sink error")
	}
	if len(ok.frames) != 1 || ok.frames[0][1] != frame[1] {
		t.Errorf("healthy sink frames = %v", ok.frames)
	}

	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if !failing.closed || !ok.closed {
		t.Error("Close() did not close every sink")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		kinds   []string
		wantErr error
	}{
		{"default", nil, nil},
		{"log", []string{"log"}, nil},
		{"log_twice", []string{"LOG", " log "}, nil},
		{"unknown", []string{"dmx"}, ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(Options{Kinds: tt.kinds, Leds: 4})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if err := s.Write(make([]pixel.Color, 4)); err != nil {
				t.Errorf("Write() error = %v", err)
			}
			_ = s.Close()
		})
	}
}

func TestNew_OPCRequiresAddress(t *testing.T) {
	if _, err := New(Options{Kinds: []string{"opc"}}); err == nil {
		t.Error("New() with empty OPC address should fail")
	}
}

func TestLog_CountsFrames(t *testing.T) {
	l := NewLog()
	for i := 0; i < 3; i++ {
		_ = l.Write([]pixel.Color{{R: 9}})
	}
	if l.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", l.Frames())
	}
}
