// Package command maps named remote commands onto device transitions.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrMissingArgument is returned when a required argument is absent.
	ErrMissingArgument = errors.New("missing argument")
	// ErrOutOfRange is returned for an argument that does not parse or lies outside its range.
	ErrOutOfRange = errors.New("argument out of range")
	// ErrUnknownCommand is returned for a name with no registered command.
	ErrUnknownCommand = errors.New("unknown command")
)

// Args are the raw string arguments of a command, as received from the
// query string or a script.
type Args map[string]string

// Has reports whether name is present.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns a required argument verbatim.
func (a Args) String(name string) (string, error) {
	v, ok := a[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	return v, nil
}

// Int returns a required integer argument within [min, max].
func (a Args) Int(name string, min, max int) (int, error) {
	raw, err := a.String(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrOutOfRange, name, raw)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%w: %s=%d not in [%d,%d]", ErrOutOfRange, name, v, min, max)
	}
	return v, nil
}

// Request is one command addressed to the device.
type Request struct {
	ID     string
	Name   string
	Args   Args
	Source string
}

// NewRequest creates a request with a fresh ID.
func NewRequest(name string, args Args, source string) Request {
	if args == nil {
		args = Args{}
	}
	return Request{
		ID:     uuid.NewString(),
		Name:   name,
		Args:   args,
		Source: source,
	}
}

// Result is the reply to a Request.
type Result struct {
	RequestID string
	Command   string
	Data      any
	Err       error
}

// OK reports whether the command succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}
