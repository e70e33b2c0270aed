package output

import (
	"errors"

	"github.com/dokzlo13/stripd/internal/pixel"
)

// Multi writes every frame to all of its sinks.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a fanout over sinks.
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Write delivers the frame to every sink even when one fails.
func (m *Multi) Write(frame []pixel.Color) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
