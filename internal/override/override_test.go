package override

import (
	"reflect"
	"testing"

	"github.com/dokzlo13/stripd/internal/pixel"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		want    []Entry
		skipped int
	}{
		{
			name:  "two_tuples_no_separator",
			input: "(0,255,0,0)(5,0,255,0)",
			n:     10,
			want: []Entry{
				{Index: 0, Color: pixel.Color{R: 255}},
				{Index: 5, Color: pixel.Color{G: 255}},
			},
		},
		{
			name:    "unterminated_trailing_tuple",
			input:   "(1,1,2,3)(2,10,20",
			n:       10,
			want:    []Entry{{Index: 1, Color: pixel.Color{R: 1, G: 2, B: 3}}},
			skipped: 1,
		},
		{
			name:    "only_unterminated",
			input:   "(2,10,20",
			n:       10,
			skipped: 1,
		},
		{
			name:  "missing_fields_are_zero",
			input: "(3,40)",
			n:     10,
			want:  []Entry{{Index: 3, Color: pixel.Color{R: 40}}},
		},
		{
			name:  "clamps_index_and_channels",
			input: "(99,300,-5,7)(-4,1,1,1)",
			n:     10,
			want: []Entry{
				{Index: 9, Color: pixel.Color{R: 255, G: 0, B: 7}},
				{Index: 0, Color: pixel.Color{R: 1, G: 1, B: 1}},
			},
		},
		{
			name:  "garbage_fields_parse_as_zero",
			input: "(x,12abc,,z)",
			n:     10,
			want:  []Entry{{Index: 0, Color: pixel.Color{R: 12}}},
		},
		{
			name:  "python_tuple_list",
			input: "((0, 255, 0, 0), (4, 0, 0, 255))",
			n:     10,
			want: []Entry{
				{Index: 0, Color: pixel.Color{R: 255}},
				{Index: 4, Color: pixel.Color{B: 255}},
			},
		},
		{
			name:    "empty_tuple_skipped",
			input:   "()(1,2,3,4)",
			n:       10,
			want:    []Entry{{Index: 1, Color: pixel.Color{R: 2, G: 3, B: 4}}},
			skipped: 1,
		},
		{
			name:  "no_tuples",
			input: "hello",
			n:     10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input, tt.n)
			if !reflect.DeepEqual(got.Entries, tt.want) {
				t.Errorf("Entries = %+v, want %+v", got.Entries, tt.want)
			}
			if got.Skipped != tt.skipped {
				t.Errorf("Skipped = %d, want %d", got.Skipped, tt.skipped)
			}
		})
	}
}
