package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/khaleegram/earena/repositories"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultSweepBatch    = 50
)

// OverdueSweeper periodically forces resolution on matches whose reporting
// deadline has passed. Each match is resolved under its own row lock, so a
// second sweeper instance (or an organizer acting at the same moment) finds
// the match already handled and moves on.
type OverdueSweeper struct {
	matchRepo repositories.MatchRepository
	lifecycle MatchLifecycleService
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

func NewOverdueSweeper(
	matchRepo repositories.MatchRepository,
	lifecycle MatchLifecycleService,
	logger *slog.Logger,
	interval time.Duration,
) *OverdueSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &OverdueSweeper{
		matchRepo: matchRepo,
		lifecycle: lifecycle,
		logger:    logger,
		interval:  interval,
		batchSize: defaultSweepBatch,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *OverdueSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("overdue sweeper started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("overdue sweeper stopped")
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("overdue sweep failed", slog.Any("error", err))
			}
		}
	}
}

// SweepOnce resolves one batch of overdue matches. Failures on individual
// matches are logged and skipped; the next tick retries them.
func (s *OverdueSweeper) SweepOnce(ctx context.Context) error {
	now := time.Now()
	overdue, err := s.matchRepo.ListOverdue(ctx, s.batchSize)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return nil
	}

	resolved := 0
	for _, m := range overdue {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.lifecycle.ResolveOverdue(ctx, m.ID, now); err != nil {
			s.logger.Error("failed to resolve overdue match",
				slog.Int("match_id", m.ID), slog.Any("error", err))
			continue
		}
		resolved++
	}
	s.logger.Info("overdue sweep finished",
		slog.Int("candidates", len(overdue)), slog.Int("resolved", resolved))
	return nil
}
