package command

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dokzlo13/stripd/internal/device"
)

// Command is a named operation on the device
type Command interface {
	Name() string
	Execute(d *device.Device, args Args) (any, error)
}

// SimpleCommand wraps a function as a Command
type SimpleCommand struct {
	name string
	fn   func(d *device.Device, args Args) (any, error)
}

func (c *SimpleCommand) Name() string { return c.name }

func (c *SimpleCommand) Execute(d *device.Device, args Args) (any, error) {
	return c.fn(d, args)
}

// Registry holds all registered commands
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry
func (r *Registry) Register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.Name()]; exists {
		return fmt.Errorf("command %q already registered", cmd.Name())
	}

	r.commands[cmd.Name()] = cmd
	return nil
}

// RegisterSimple adds a function command
func (r *Registry) RegisterSimple(name string, fn func(d *device.Device, args Args) (any, error)) error {
	return r.Register(&SimpleCommand{name: name, fn: fn})
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.commands[name]
	return cmd, exists
}

// Names returns all registered command names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
