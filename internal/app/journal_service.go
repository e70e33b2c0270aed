package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/config"
	"github.com/dokzlo13/stripd/internal/journal"
)

// JournalService periodically drops journal entries past retention.
type JournalService struct {
	cfg     *config.Config
	journal *journal.Journal
}

// NewJournalService creates a new JournalService. j may be nil.
func NewJournalService(cfg *config.Config, j *journal.Journal) *JournalService {
	return &JournalService{cfg: cfg, journal: j}
}

// Start begins the cleanup loop if the journal is enabled.
func (s *JournalService) Start(ctx context.Context) {
	if s.journal == nil {
		return
	}
	go s.runCleanup(ctx)
}

// runCleanup periodically cleans up old journal entries.
func (s *JournalService) runCleanup(ctx context.Context) {
	retention := s.cfg.Journal.Retention()
	interval := s.cfg.Journal.CleanupInterval.Duration()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.journal.DeleteOlderThan(retention)
			if err != nil {
				log.Error().Err(err).Msg("Failed to cleanup old journal entries")
			} else if deleted > 0 {
				log.Info().Int64("deleted", deleted).Dur("retention", retention).Msg("Cleaned up old journal entries")
			}
		}
	}
}
