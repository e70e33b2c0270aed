// Package persist encodes the device state into a fixed-layout record in a
// non-volatile region and reads it back at startup.
//
// Layout:
//
//	0      validity marker
//	1      power flag (0 off, 1 on, 2 on with default pattern)
//	2..4   base colour R, G, B
//	5..6   tick interval in ms, little endian
//	7      animation kind
//	8      override-valid flag
//	16..   N override records of 4 bytes: presence flag, R, G, B
package persist

// Marker identifies a region that holds a record written by this layout.
const Marker = 0xA5

// Field offsets.
const (
	offMarker   = 0
	offPower    = 1
	offColor    = 2
	offInterval = 5
	offKind     = 7
	offOverride = 8

	// OverrideOffset is where the per-pixel records begin.
	OverrideOffset = 16
	// PixelRecordSize is the size of one per-pixel override record.
	PixelRecordSize = 4
)

// Power flag values.
const (
	powerOff     = 0
	powerOn      = 1
	powerDefault = 2
)

// RegionSize returns the storage size needed for a strip of n pixels.
func RegionSize(n int) int {
	return OverrideOffset + n*PixelRecordSize
}
