package retention

import (
	"context"
	"log/slog"
	"time"

	"mdnav-hq/mdnav/pkg/config"
	"mdnav-hq/mdnav/pkg/history"
	"mdnav-hq/mdnav/pkg/telemetry/metrics"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays removes entries older than this many days (0 = keep forever).
	RetentionDays int

	// MaxEntries keeps at most this many entries, newest first (0 = unlimited).
	MaxEntries int

	// PruneSchedule is a cron expression, e.g. "0 3 * * *".
	PruneSchedule string
}

// FromConfig builds a retention Config from the history section.
func FromConfig(cfg config.HistoryConfig) *Config {
	return &Config{
		RetentionDays: cfg.RetentionDays,
		MaxEntries:    cfg.MaxEntries,
		PruneSchedule: cfg.PruneSchedule,
	}
}

// Pruner enforces retention on a history store.
type Pruner struct {
	store   history.Store
	config  *Config
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithMetrics reports pruned entries and the remaining store size.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pruner) { p.metrics = c }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(p *Pruner) { p.logger = l.With("component", "history.retention") }
}

// NewPruner creates a pruner for store.
func NewPruner(store history.Store, cfg *Config, opts ...Option) *Pruner {
	if cfg == nil {
		cfg = &Config{}
	}

	p := &Pruner{
		store:  store,
		config: cfg,
		logger: slog.Default().With("component", "history.retention"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prune removes entries older than the retention period, then trims the
// store to MaxEntries. It returns the total number of entries removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.store.Delete(ctx, &history.Filter{Before: &cutoff})
		if err != nil {
			return total, p.retentionError(err)
		}
		total += deleted
		p.logger.Debug("pruned entries by age",
			"deleted_count", deleted,
			"cutoff_time", cutoff,
		)
	}

	if p.config.MaxEntries > 0 {
		deleted, err := p.store.Trim(ctx, p.config.MaxEntries)
		if err != nil {
			return total, p.retentionError(err)
		}
		total += deleted
		p.logger.Debug("pruned entries by count",
			"deleted_count", deleted,
			"max_entries", p.config.MaxEntries,
		)
	}

	p.metrics.RecordHistoryPruned(int(total))
	if count, err := p.store.Count(ctx, nil); err == nil {
		p.metrics.UpdateHistorySize(int(count))
	}

	if total > 0 {
		p.logger.Info("history pruning completed",
			"total_deleted", total,
			"retention_days", p.config.RetentionDays,
			"max_entries", p.config.MaxEntries,
		)
	}

	return total, nil
}

func (p *Pruner) retentionError(err error) error {
	return &history.RetentionError{
		RetentionDays: p.config.RetentionDays,
		MaxEntries:    p.config.MaxEntries,
		Cause:         err,
	}
}
