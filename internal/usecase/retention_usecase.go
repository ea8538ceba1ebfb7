package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/mintledger/internal/domain"
)

// RetentionUseCase purges aged records in bounded batches.
type RetentionUseCase struct {
	repo      RetentionRepository
	rules     []domain.RetentionRule
	batchSize int
	clock     Clock
	effects   Effects
}

// NewRetentionUseCase creates a new RetentionUseCase. Empty rules use
// domain.DefaultRetentionRules; a non-positive batchSize uses
// DefaultRetentionBatchSize.
func NewRetentionUseCase(repo RetentionRepository, rules []domain.RetentionRule, batchSize int, clock Clock, effects Effects) *RetentionUseCase {
	if len(rules) == 0 {
		rules = domain.DefaultRetentionRules()
	}
	if batchSize <= 0 {
		batchSize = DefaultRetentionBatchSize
	}

	return &RetentionUseCase{
		repo:      repo,
		rules:     rules,
		batchSize: batchSize,
		clock:     clock,
		effects:   effects,
	}
}

// Sweep applies every rule once. A dry run only counts what would go.
// Batches already committed stay committed when a later batch fails.
func (uc *RetentionUseCase) Sweep(ctx context.Context, dryRun bool) (*domain.SweepReport, error) {
	now := uc.clock.Now()
	report := &domain.SweepReport{DryRun: dryRun, StartedAt: now}
	start := time.Now()

	for _, rule := range uc.rules {
		cutoff := rule.Cutoff(now)

		var (
			cr  domain.CategoryReport
			err error
		)
		if dryRun {
			cr, err = uc.count(ctx, rule.Category, cutoff)
		} else {
			cr, err = uc.purge(ctx, rule.Category, cutoff)
		}
		report.Add(cr)
		if err != nil {
			report.FinishedAt = uc.clock.Now()
			uc.effects.Logger.Error().Err(err).
				Str("category", string(rule.Category)).
				Int64("deleted", report.TotalDeleted).
				Msg("retention sweep aborted")
			return report, fmt.Errorf("sweep %s: %w", rule.Category, err)
		}

		uc.effects.Logger.Debug().
			Str("category", string(cr.Category)).
			Int64("matched", cr.Matched).
			Int64("deleted", cr.Deleted).
			Int("batches", cr.Batches).
			Bool("dry_run", dryRun).
			Msg("retention category done")
	}

	report.FinishedAt = uc.clock.Now()
	if uc.effects.Metrics != nil && !dryRun {
		uc.effects.Metrics.RetentionDuration.Observe(time.Since(start).Seconds())
	}

	uc.effects.Logger.Info().
		Bool("dry_run", dryRun).
		Int64("matched", report.TotalMatched).
		Int64("deleted", report.TotalDeleted).
		Int("batches", report.BatchesCommitted).
		Msg("retention sweep finished")

	return report, nil
}

func (uc *RetentionUseCase) count(ctx context.Context, category domain.RetentionCategory, cutoff time.Time) (domain.CategoryReport, error) {
	n, err := uc.repo.Count(ctx, category, cutoff)
	if err != nil {
		return domain.CategoryReport{Category: category}, err
	}
	return domain.CategoryReport{Category: category, Matched: n}, nil
}

func (uc *RetentionUseCase) purge(ctx context.Context, category domain.RetentionCategory, cutoff time.Time) (domain.CategoryReport, error) {
	cr := domain.CategoryReport{Category: category}

	for {
		if err := ctx.Err(); err != nil {
			return cr, err
		}

		n, err := uc.repo.DeleteBatch(ctx, category, cutoff, uc.batchSize)
		if err != nil {
			return cr, err
		}
		if n > 0 {
			cr.Batches++
			cr.Deleted += n
			cr.Matched += n
			if uc.effects.Metrics != nil {
				uc.effects.Metrics.RetentionDeleted.WithLabelValues(string(category)).Add(float64(n))
			}
		}
		if n < int64(uc.batchSize) {
			return cr, nil
		}
	}
}
