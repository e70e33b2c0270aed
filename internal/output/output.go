// Package output implements frame sinks for the pixel buffer.
package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dokzlo13/stripd/internal/pixel"
)

// Sink kinds accepted by New.
const (
	KindLog = "log"
	KindOPC = "opc"
	KindSPI = "spi"
)

// ErrUnknownKind is returned by New for an unsupported sink name.
var ErrUnknownKind = errors.New("unknown output kind")

// Sink is a pixel.Output that holds a connection or device handle.
type Sink interface {
	pixel.Output
	Close() error
}

// Options selects and configures sinks.
type Options struct {
	Kinds      []string
	Leds       int
	OPCAddress string
	OPCChannel uint8
	SPIPort    string
}

// New builds one sink per configured kind. More than one kind yields a fanout.
func New(opts Options) (Sink, error) {
	if len(opts.Kinds) == 0 {
		return NewLog(), nil
	}

	sinks := make([]Sink, 0, len(opts.Kinds))
	for _, kind := range opts.Kinds {
		s, err := newSink(strings.ToLower(strings.TrimSpace(kind)), opts)
		if err != nil {
			for _, opened := range sinks {
				_ = opened.Close()
			}
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return NewMulti(sinks...), nil
}

func newSink(kind string, opts Options) (Sink, error) {
	switch kind {
	case KindLog:
		return NewLog(), nil
	case KindOPC:
		return DialOPC(opts.OPCAddress, opts.OPCChannel)
	case KindSPI:
		return OpenSPI(opts.SPIPort, opts.Leds)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
