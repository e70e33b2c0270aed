// Package nvram models a small byte-addressable non-volatile region in the
// manner of an EEPROM emulation: writes land in a shadow copy and only become
// durable on Commit.
package nvram

// Erased is the value of a byte that was never written.
const Erased = 0xFF

// Storage is a fixed-size byte-addressable region.
type Storage interface {
	// Size returns the region size in bytes.
	Size() int

	// Read returns the byte at addr. Out of range reads return Erased.
	Read(addr int) byte

	// Write stores b at addr in the shadow copy. Out of range writes are ignored.
	Write(addr int, b byte)

	// Commit makes pending writes durable. It is a no-op when nothing changed.
	Commit() error
}

// shadow is the in-memory image shared by the implementations.
type shadow struct {
	data  []byte
	dirty bool
}

func newShadow(size int) shadow {
	data := make([]byte, size)
	for i := range data {
		data[i] = Erased
	}
	return shadow{data: data}
}

func (s *shadow) Size() int {
	return len(s.data)
}

func (s *shadow) Read(addr int) byte {
	if addr < 0 || addr >= len(s.data) {
		return Erased
	}
	return s.data[addr]
}

// Write only marks the region dirty when the byte actually changes, so
// rewriting identical content costs no commit.
func (s *shadow) Write(addr int, b byte) {
	if addr < 0 || addr >= len(s.data) {
		return
	}
	if s.data[addr] != b {
		s.data[addr] = b
		s.dirty = true
	}
}

// Erase resets every byte to Erased.
func (s *shadow) Erase() {
	for i := range s.data {
		s.Write(i, Erased)
	}
}
