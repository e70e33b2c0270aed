// Package pixel provides the frame buffer for an addressable LED strip.
package pixel

import "fmt"

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Black is the colour of an unlit pixel.
var Black = Color{}

// IsBlack reports whether all channels are zero.
func (c Color) IsBlack() bool {
	return c == Black
}

// Scale returns the colour with every channel multiplied by level/255.
func (c Color) Scale(level uint8) Color {
	return Color{
		R: uint8(uint16(c.R) * uint16(level) / 255),
		G: uint8(uint16(c.G) * uint16(level) / 255),
		B: uint8(uint16(c.B) * uint16(level) / 255),
	}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Output receives complete frames. Implementations live in package output.
type Output interface {
	Write(frame []Color) error
}

// Buffer is an ordered sequence of N cells holding the current frame.
type Buffer struct {
	cells []Color
}

// NewBuffer creates a dark buffer of n cells.
func NewBuffer(n int) *Buffer {
	return &Buffer{cells: make([]Color, n)}
}

// Len returns the number of cells.
func (b *Buffer) Len() int {
	return len(b.cells)
}

// Set assigns a colour to cell i. Out of range indices are ignored.
func (b *Buffer) Set(i int, c Color) {
	if i < 0 || i >= len(b.cells) {
		return
	}
	b.cells[i] = c
}

// At returns the colour of cell i, or Black when out of range.
func (b *Buffer) At(i int) Color {
	if i < 0 || i >= len(b.cells) {
		return Black
	}
	return b.cells[i]
}

// Fill assigns c to every cell.
func (b *Buffer) Fill(c Color) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// Clear darkens every cell.
func (b *Buffer) Clear() {
	b.Fill(Black)
}

// Frame returns a copy of the current cells.
func (b *Buffer) Frame() []Color {
	frame := make([]Color, len(b.cells))
	copy(frame, b.cells)
	return frame
}

// Flush pushes the current frame to out.
func (b *Buffer) Flush(out Output) error {
	if out == nil {
		return nil
	}
	return out.Write(b.cells)
}
