package command

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/device"
	"github.com/dokzlo13/stripd/internal/journal"
	"github.com/dokzlo13/stripd/internal/metrics"
)

// Journal records handled commands
type Journal interface {
	Append(e journal.Entry) error
}

// Invoker runs commands against one device. It must only be called from
// the loop that owns the device.
type Invoker struct {
	registry *Registry
	device   *device.Device
	journal  Journal
}

// NewInvoker creates an invoker. j may be nil.
func NewInvoker(registry *Registry, d *device.Device, j Journal) *Invoker {
	return &Invoker{
		registry: registry,
		device:   d,
		journal:  j,
	}
}

// HasCommand checks if a command is registered
func (i *Invoker) HasCommand(name string) bool {
	_, exists := i.registry.Get(name)
	return exists
}

// Invoke runs req to completion.
func (i *Invoker) Invoke(req Request) Result {
	res := Result{RequestID: req.ID, Command: req.Name}

	cmd, exists := i.registry.Get(req.Name)
	if !exists {
		res.Err = fmt.Errorf("%w: %q", ErrUnknownCommand, req.Name)
	} else {
		log.Debug().
			Str("command", req.Name).
			Str("request_id", req.ID).
			Str("source", req.Source).
			Interface("args", req.Args).
			Msg("Executing command")
		res.Data, res.Err = cmd.Execute(i.device, req.Args)
	}

	outcome := Outcome(res.Err)
	metrics.CommandHandled(req.Name, string(outcome))
	if res.Err != nil {
		log.Warn().Err(res.Err).
			Str("command", req.Name).
			Str("request_id", req.ID).
			Str("source", req.Source).
			Msg("Command rejected")
	}

	if i.journal != nil && !ReadOnly(req.Name) {
		entry := journal.Entry{
			RequestID: req.ID,
			Command:   req.Name,
			Source:    req.Source,
			Args:      req.Args,
			Outcome:   outcome,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		if err := i.journal.Append(entry); err != nil {
			log.Error().Err(err).Str("request_id", req.ID).Msg("Failed to journal command")
		}
	}

	return res
}

// Outcome classifies an Invoke error.
func Outcome(err error) journal.Outcome {
	switch {
	case err == nil:
		return journal.OutcomeOK
	case errors.Is(err, ErrUnknownCommand):
		return journal.OutcomeUnknown
	case errors.Is(err, ErrMissingArgument), errors.Is(err, ErrOutOfRange),
		errors.Is(err, device.ErrUnknownAnimation), errors.Is(err, device.ErrInvalidInterval):
		return journal.OutcomeInvalid
	default:
		return journal.OutcomeFailed
	}
}
