package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/config"
)

// App owns one strip: its services, the render loop and their shutdown.
type App struct {
	cfg      *config.Config
	services *Services
	cancel   context.CancelFunc
	stopped  <-chan struct{}
	started  time.Time
}

// New opens storage and outputs and builds the command stack. Nothing
// renders until Start.
func New(cfg *config.Config) (*App, error) {
	services, err := NewServices(cfg)
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, services: services}, nil
}

func (a *App) Services() *Services {
	return a.services
}

// Start restores the last persisted state and starts the render loop
// together with the HTTP and housekeeping services.
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	if err := a.services.Start(ctx); err != nil {
		a.cancel()
		return err
	}
	a.stopped = a.services.Done()
	a.started = time.Now()

	st := a.services.Device.Snapshot()
	log.Info().
		Str("strip", a.cfg.Strip.Name).
		Int("leds", a.cfg.Strip.Leds).
		Strs("outputs", a.cfg.Output.Kinds).
		Str("mode", st.Mode.String()).
		Msg("Strip running")
	return nil
}

// Wait blocks until the render loop exits, either because the start
// context was cancelled or because the loop stopped on its own.
func (a *App) Wait() {
	if a.stopped != nil {
		<-a.stopped
	}
}

// Stop cancels the loop, waits for it up to the shutdown timeout and
// closes storage and outputs.
func (a *App) Stop() error {
	if a.cancel != nil {
		a.cancel()
	}
	if !a.started.IsZero() {
		log.Info().
			Str("strip", a.cfg.Strip.Name).
			Dur("uptime", time.Since(a.started).Round(time.Second)).
			Msg("Stopping strip")
	}
	return a.services.Stop()
}

// ResetState erases the persisted record, so the next restore falls back
// to the default pattern.
func (a *App) ResetState() error {
	return a.services.ResetState()
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
		log.Warn().Msg("Shutdown signal received")
	}()
	return ctx
}
