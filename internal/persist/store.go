package persist

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/animation"
	"github.com/dokzlo13/stripd/internal/device"
	"github.com/dokzlo13/stripd/internal/nvram"
	"github.com/dokzlo13/stripd/internal/pixel"
)

// Store saves and loads device state in a region sized by RegionSize.
type Store struct {
	nv nvram.Storage
	n  int

	// OnCommit, when set, is called after every successful commit.
	OnCommit func(overrides bool)
}

// NewStore creates a store for a strip of n pixels.
func NewStore(nv nvram.Storage, n int) (*Store, error) {
	if need := RegionSize(n); nv.Size() < need {
		return nil, fmt.Errorf("NV region too small: %d bytes, need %d for %d pixels", nv.Size(), need, n)
	}
	return &Store{nv: nv, n: n}, nil
}

// Save writes the header record and commits. The override region is written
// only in PixelOverride mode so ordinary colour and animation changes do not
// pay for N pixel records.
func (s *Store) Save(st device.State) error {
	overrides := st.Mode == device.ModePixelOverride

	s.nv.Write(offMarker, Marker)
	s.nv.Write(offPower, powerFlag(st.Mode))
	s.nv.Write(offColor, st.Color.R)
	s.nv.Write(offColor+1, st.Color.G)
	s.nv.Write(offColor+2, st.Color.B)
	s.nv.Write(offInterval, byte(st.Interval))
	s.nv.Write(offInterval+1, byte(st.Interval>>8))
	s.nv.Write(offKind, byte(st.Kind))
	s.nv.Write(offOverride, boolByte(overrides))

	if overrides {
		for i := 0; i < s.n; i++ {
			addr := OverrideOffset + i*PixelRecordSize
			c, ok := st.Overrides[i]
			s.nv.Write(addr, boolByte(ok))
			s.nv.Write(addr+1, c.R)
			s.nv.Write(addr+2, c.G)
			s.nv.Write(addr+3, c.B)
		}
	}

	if err := s.nv.Commit(); err != nil {
		return err
	}
	if s.OnCommit != nil {
		s.OnCommit(overrides)
	}
	return nil
}

// Load reads the record back. It returns false when the marker does not
// match, in which case the caller applies device.DefaultState.
func (s *Store) Load() (device.State, bool) {
	if s.nv.Read(offMarker) != Marker {
		log.Info().Msg("No valid record in NV region")
		return device.State{}, false
	}

	st := device.State{
		Color: pixel.Color{
			R: s.nv.Read(offColor),
			G: s.nv.Read(offColor + 1),
			B: s.nv.Read(offColor + 2),
		},
		Interval: uint16(s.nv.Read(offInterval)) | uint16(s.nv.Read(offInterval+1))<<8,
		Kind:     animation.Kind(s.nv.Read(offKind)),
	}
	overrides := s.nv.Read(offOverride) == 1

	switch power := s.nv.Read(offPower); {
	case power == powerOff:
		st.Mode = device.ModeOff
	case power == powerDefault:
		st.Mode = device.ModeDefault
	case overrides:
		st.Mode = device.ModePixelOverride
	case st.Kind != animation.None:
		st.Mode = device.ModeAnimation
	default:
		st.Mode = device.ModeStaticColor
	}

	if st.Mode != device.ModeAnimation {
		st.Kind = animation.None
	}
	if st.Mode == device.ModePixelOverride {
		st.Overrides = s.loadOverrides()
	}

	log.Debug().
		Str("mode", st.Mode.String()).
		Str("kind", st.Kind.String()).
		Str("color", st.Color.String()).
		Msg("Loaded record from NV region")
	return st, true
}

func (s *Store) loadOverrides() map[int]pixel.Color {
	table := make(map[int]pixel.Color)
	for i := 0; i < s.n; i++ {
		addr := OverrideOffset + i*PixelRecordSize
		if s.nv.Read(addr) != 1 {
			continue
		}
		table[i] = pixel.Color{R: s.nv.Read(addr + 1), G: s.nv.Read(addr + 2), B: s.nv.Read(addr + 3)}
	}
	return table
}

func powerFlag(m device.Mode) byte {
	switch m {
	case device.ModeOff:
		return powerOff
	case device.ModeDefault:
		return powerDefault
	default:
		return powerOn
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
