package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/app"
	"github.com/dokzlo13/stripd/internal/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	resetState := flag.Bool("reset-state", false, "Erase the stored strip state and start from the default pattern")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", configPath).Msg("Failed to load configuration")
	}

	setupLogging(cfg.Log, cfg.Strip.Name)
	log.Info().Str("config", configPath).Msg("Starting stripd")

	application, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open strip")
	}

	if *resetState {
		// Erased before Start so Restore sees an empty record.
		if err := application.ResetState(); err != nil {
			log.Warn().Err(err).Msg("Failed to erase stored state")
		} else {
			log.Info().Msg("Stored state erased")
		}
	}

	if err := application.Start(app.SignalContext()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start strip")
	}
	application.Wait()

	if err := application.Stop(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
}

// setupLogging configures the global logger. Every line carries the strip
// name so logs from several strips on one host can be told apart.
func setupLogging(cfg config.LogConfig, strip string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var logger zerolog.Logger
	if cfg.UseJSON {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05.000",
			NoColor:    !cfg.Colors,
		})
	}
	log.Logger = logger.With().Timestamp().Str("strip", strip).Logger()

	level, err := zerolog.ParseLevel(cfg.GetLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
