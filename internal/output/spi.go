package output

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/dokzlo13/stripd/internal/pixel"
)

// spiFrequency is the NRZ bit rate for WS2812 strips.
const spiFrequency = 2500 * physic.KiloHertz

// SPI drives a WS2812 strip through an SPI port using NRZ encoding.
type SPI struct {
	port spi.PortCloser
	dev  *nrzled.Dev
	raw  []byte
}

// OpenSPI opens the named SPI port (empty selects the first one) for a
// strip of n pixels.
func OpenSPI(name string, n int) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("spi output: host init: %w", err)
	}
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("spi output: open port %q: %w", name, err)
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: n,
		Channels:  3,
		Freq:      spiFrequency,
	})
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("spi output: %w", err)
	}
	log.Info().Str("port", port.String()).Int("leds", n).Msg("Opened SPI LED strip")
	return &SPI{port: port, dev: dev, raw: make([]byte, n*3)}, nil
}

func (s *SPI) Write(frame []pixel.Color) error {
	if len(s.raw) < len(frame)*3 {
		s.raw = make([]byte, len(frame)*3)
	}
	raw := s.raw[:len(frame)*3]
	for i, c := range frame {
		raw[i*3], raw[i*3+1], raw[i*3+2] = c.R, c.G, c.B
	}
	if _, err := s.dev.Write(raw); err != nil {
		return fmt.Errorf("spi output: %w", err)
	}
	return nil
}

// Close darkens the strip and releases the port.
func (s *SPI) Close() error {
	if err := s.dev.Halt(); err != nil {
		log.Warn().Err(err).Msg("Failed to halt LED strip")
	}
	return s.port.Close()
}
