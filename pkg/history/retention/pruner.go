package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"humanlayer/hlyr/pkg/config"
	"humanlayer/hlyr/pkg/history"
)

// Pruner enforces the retention limits of the history journal.
type Pruner struct {
	storage history.Storage
	config  config.RetentionConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewPruner creates a pruner for storage.
func NewPruner(storage history.Storage, cfg config.RetentionConfig) *Pruner {
	return &Pruner{
		storage: storage,
		config:  cfg,
		logger:  slog.Default().With("component", "history.retention"),
		now:     time.Now,
	}
}

// Enabled reports whether any retention limit is configured.
func (p *Pruner) Enabled() bool {
	return p.config.MaxAge > 0 || p.config.MaxTurns > 0
}

// Prune deletes turns older than MaxAge, then the oldest turns beyond
// MaxTurns. It returns the total number of turns deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.MaxAge > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
	}

	if p.config.MaxTurns > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
	}

	if total > 0 {
		p.logger.Info("history pruned",
			"deleted_count", total,
			"max_age", p.config.MaxAge,
			"max_turns", p.config.MaxTurns,
		)
	}
	return total, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().Add(-p.config.MaxAge)
	return p.storage.Delete(ctx, &history.Query{EndTime: &cutoff})
}

func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &history.Query{})
	if err != nil {
		return 0, err
	}
	excess := count - p.config.MaxTurns
	if excess <= 0 {
		return 0, nil
	}

	oldest, err := p.storage.Query(ctx, &history.Query{Ascending: true, Limit: int(excess)})
	if err != nil {
		return 0, err
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	// Turns sharing the cutoff timestamp go too
	cutoff := oldest[len(oldest)-1].Timestamp
	return p.storage.Delete(ctx, &history.Query{EndTime: &cutoff})
}
