package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/animation"
	"github.com/dokzlo13/stripd/internal/command"
	"github.com/dokzlo13/stripd/internal/config"
	"github.com/dokzlo13/stripd/internal/db"
	"github.com/dokzlo13/stripd/internal/device"
	"github.com/dokzlo13/stripd/internal/journal"
	"github.com/dokzlo13/stripd/internal/metrics"
	"github.com/dokzlo13/stripd/internal/nvram"
	"github.com/dokzlo13/stripd/internal/output"
	"github.com/dokzlo13/stripd/internal/persist"
	"github.com/dokzlo13/stripd/internal/render"
)

// regionName is the nvram row holding the state record.
const regionName = "state"

// region is an NV region that can be wiped.
type region interface {
	nvram.Storage
	Erase() error
}

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure
	DB      *db.DB
	NV      region
	Store   *persist.Store
	Output  output.Sink
	Journal *journal.Journal

	// Device and render loop
	Device *device.Device
	Engine *render.Engine
	Loop   *Loop

	// Command system
	Registry *command.Registry
	Invoker  *command.Invoker
	Queue    *command.Queue

	// High-level services
	Lua     *LuaService
	Health  *HealthService
	Webhook *WebhookService
	Cleanup *JournalService

	started bool
	done    chan struct{}
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg, done: make(chan struct{})}
	n := cfg.Strip.Leds
	size := persist.RegionSize(n)

	// Initialize storage
	if cfg.Storage.Memory {
		log.Warn().Msg("Storage is in-memory, state will not survive a restart")
		s.NV = nvram.NewMemory(size)
	} else {
		database, err := db.Open(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		s.DB = database
		s.NV = nvram.OpenSQLite(database.DB, regionName, size)
		if cfg.Journal.Enabled {
			s.Journal = journal.New(database.DB)
		}
	}

	store, err := persist.NewStore(s.NV, n)
	if err != nil {
		s.Close()
		return nil, err
	}
	store.OnCommit = metrics.StorageCommitted
	s.Store = store

	// Initialize output
	s.Output, err = output.New(output.Options{
		Kinds:      cfg.Output.Kinds,
		Leds:       n,
		OPCAddress: cfg.Output.OPCAddress,
		OPCChannel: cfg.Output.OPCChannel,
		SPIPort:    cfg.Output.SPIPort,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open output: %w", err)
	}

	// Initialize device and render engine
	s.Device = device.New(n, s.Store, s.Output, time.Now().UnixNano())
	s.Engine = render.NewEngine(render.Options{
		StrobeOnMs:  uint32(cfg.Strip.StrobeOn.Duration().Milliseconds()),
		StrobeOffMs: uint32(cfg.Strip.StrobeOff.Duration().Milliseconds()),
	})
	s.Engine.OnFrame = func(k animation.Kind) {
		metrics.FrameRendered(k.String())
	}

	// Initialize command system
	s.Registry = command.NewRegistry()
	if err := command.RegisterBuiltins(s.Registry, cfg.Strip.Name); err != nil {
		s.Close()
		return nil, err
	}
	var j command.Journal
	if s.Journal != nil {
		j = s.Journal
	}
	s.Invoker = command.NewInvoker(s.Registry, s.Device, j)
	s.Queue = command.NewQueue(cfg.Strip.QueueSize)

	s.Loop = NewLoop(s.Queue, s.Invoker, s.Engine, s.Device, render.NewSystemClock(), cfg.Strip.LoopInterval.Duration())

	// Initialize Lua service
	baseDir := ""
	if cfg.Script != "" {
		baseDir = filepath.Dir(cfg.Script)
	}
	s.Lua = NewLuaService(cfg.Script, baseDir, s.Invoker)
	s.Loop.boot = s.Lua.RunBootScript

	s.Health = NewHealthService(cfg)
	s.Webhook = NewWebhookService(cfg, s.Queue, s.Registry.Names())
	s.Cleanup = NewJournalService(cfg, s.Journal)

	return s, nil
}

// Restore loads the persisted state into the device, falling back to the
// default pattern when storage holds no valid record.
func (s *Services) Restore() {
	st, ok := s.Store.Load()
	if !ok {
		log.Info().Msg("No valid stored state, using default pattern")
		st = device.DefaultState()
	}
	s.Device.Restore(st)
}

// Start restores the device and starts all services in the correct order.
func (s *Services) Start(ctx context.Context) error {
	s.Restore()

	s.started = true
	go func() {
		defer close(s.done)
		s.Loop.Run(ctx)
	}()

	s.Health.Start(ctx)
	s.Webhook.Start(ctx)
	s.Cleanup.Start(ctx)

	return nil
}

// Done is closed once the render loop has exited.
func (s *Services) Done() <-chan struct{} {
	return s.done
}

// ResetState erases the NV region.
func (s *Services) ResetState() error {
	return s.NV.Erase()
}

// Stop waits for the loop to exit and releases all resources.
func (s *Services) Stop() error {
	if s.started {
		select {
		case <-s.done:
		case <-time.After(s.cfg.GetShutdownTimeout()):
			log.Warn().Msg("Render loop did not stop in time")
		}
	}
	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Lua != nil {
		s.Lua.Close()
	}
	if s.Output != nil {
		if err := s.Output.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close output")
		}
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
