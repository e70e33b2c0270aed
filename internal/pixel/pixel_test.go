package pixel

import "testing"

type recorder struct {
	frames [][]Color
}

func (r *recorder) Write(frame []Color) error {
	cp := make([]Color, len(frame))
	copy(cp, frame)
	r.frames = append(r.frames, cp)
	return nil
}

func TestBuffer_SetIgnoresOutOfRange(t *testing.T) {
	b := NewBuffer(3)
	b.Set(-1, Color{R: 1})
	b.Set(3, Color{R: 1})
	for i := 0; i < b.Len(); i++ {
		if !b.At(i).IsBlack() {
			t.Fatalf("cell %d = %v, want black", i, b.At(i))
		}
	}
}

func TestBuffer_FillClearFlush(t *testing.T) {
	b := NewBuffer(4)
	red := Color{R: 255}
	b.Fill(red)

	rec := &recorder{}
	if err := b.Flush(rec); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	b.Clear()
	if err := b.Flush(rec); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if len(rec.frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(rec.frames))
	}
	for i, c := range rec.frames[0] {
		if c != red {
			t.Errorf("frame 0 cell %d = %v, want %v", i, c, red)
		}
	}
	for i, c := range rec.frames[1] {
		if !c.IsBlack() {
			t.Errorf("frame 1 cell %d = %v, want black", i, c)
		}
	}
}

func TestColor_Scale(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		level uint8
		want  Color
	}{
		{"full", Color{200, 100, 50}, 255, Color{200, 100, 50}},
		{"zero", Color{200, 100, 50}, 0, Color{}},
		{"half", Color{255, 255, 255}, 128, Color{128, 128, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.Scale(tt.level); got != tt.want {
				t.Errorf("Scale(%d) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
