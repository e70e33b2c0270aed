package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/config"
	"github.com/dokzlo13/stripd/internal/webhook"
)

// WebhookService wraps the HTTP command server.
type WebhookService struct {
	cfg    *config.Config
	server *webhook.Server
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(cfg *config.Config, submitter webhook.Submitter, names []string) *WebhookService {
	server := webhook.NewServer(webhook.Options{
		Host:           cfg.Webhook.Host,
		Port:           cfg.Webhook.Port,
		RateLimitRPS:   cfg.Webhook.RateLimitRPS,
		RequestTimeout: cfg.Webhook.RequestTimeout.Duration(),
	}, submitter, names)
	return &WebhookService{
		cfg:    cfg,
		server: server,
	}
}

// Server returns the underlying server.
func (s *WebhookService) Server() *webhook.Server {
	return s.server
}

// Start begins the command server if enabled.
func (s *WebhookService) Start(ctx context.Context) {
	if !s.cfg.Webhook.Enabled {
		log.Debug().Msg("Command server disabled")
		return
	}

	go func() {
		if err := s.server.Run(ctx, s.cfg.ShutdownTimeout.Duration()); err != nil {
			log.Error().Err(err).Msg("Command server error")
		}
	}()
}
