package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JournalCleaner deletes journal entries recorded before a cutoff.
type JournalCleaner interface {
	Cleanup(olderThan time.Time) (int, error)
}

// RetentionConfig controls how often and how far back the journal is pruned.
type RetentionConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// JournalRetention periodically prunes the activity journal.
type JournalRetention struct {
	journal JournalCleaner
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     RetentionConfig
	now     func() time.Time
}

func NewJournalRetention(journal JournalCleaner, logger *zap.Logger, cfg RetentionConfig) (*JournalRetention, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 720 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	jr := &JournalRetention{
		journal: journal,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
		now:     time.Now,
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	if _, err := jr.cron.AddFunc(schedule, func() {
		if _, err := jr.Prune(context.Background()); err != nil {
			jr.logger.Error("journal cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule journal cleanup: %w", err)
	}

	return jr, nil
}

// Start launches the cron scheduler.
func (jr *JournalRetention) Start() {
	if jr == nil || jr.cron == nil {
		return
	}
	jr.cron.Start()
	jr.logger.Info("journal retention started",
		zap.Duration("interval", jr.cfg.Interval),
		zap.Duration("retention", jr.cfg.Retention))
}

// Stop waits for a running cleanup to finish or for ctx to expire.
func (jr *JournalRetention) Stop(ctx context.Context) {
	if jr == nil || jr.cron == nil {
		return
	}
	stopCtx := jr.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	jr.logger.Info("journal retention stopped")
}

// Prune deletes entries older than the retention window and returns how many
// were removed.
func (jr *JournalRetention) Prune(ctx context.Context) (int, error) {
	if jr == nil || jr.journal == nil {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cutoff := jr.now().Add(-jr.cfg.Retention)
	removed, err := jr.journal.Cleanup(cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		jr.logger.Info("journal entries pruned", zap.Int("removed", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}
