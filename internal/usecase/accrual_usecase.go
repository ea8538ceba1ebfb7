package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iho/mintledger/internal/domain"
)

// AccrualUseCase pays daily ROI and bonus on active investments.
type AccrualUseCase struct {
	tx             txRunner
	accountRepo    AccountRepository
	investmentRepo InvestmentRepository
	outboxRepo     OutboxRepository
	idGen          IDGenerator
	clock          Clock
	effects        Effects
	pageSize       int
	concurrency    int
}

// NewAccrualUseCase creates a new AccrualUseCase. Non-positive pageSize or
// concurrency fall back to the package defaults.
func NewAccrualUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	investmentRepo InvestmentRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	effects Effects,
	pageSize, concurrency int,
) *AccrualUseCase {
	if pageSize <= 0 {
		pageSize = DefaultAccrualPageSize
	}
	if concurrency <= 0 {
		concurrency = DefaultAccrualConcurrency
	}

	return &AccrualUseCase{
		tx:             txRunner{txManager: txManager, retrier: retrier},
		accountRepo:    accountRepo,
		investmentRepo: investmentRepo,
		outboxRepo:     outboxRepo,
		idGen:          idGen,
		clock:          clock,
		effects:        effects,
		pageSize:       pageSize,
		concurrency:    concurrency,
	}
}

// AccrualResult is what one AccrueInvestment call applied.
type AccrualResult struct {
	InvestmentID  string
	CreditedRoi   string
	CreditedBonus string
	Accrual       domain.Accrual
	Expired       bool
}

// AccrueInvestment credits whatever investmentID has earned since the last
// call. Repeated calls at the same instant credit nothing further.
func (uc *AccrualUseCase) AccrueInvestment(ctx context.Context, investmentID string) (*AccrualResult, error) {
	now := uc.clock.Now()

	// Cheap pre-check outside the transaction; the deltas applied below are
	// recomputed from rows read under lock.
	snapshot, err := uc.investmentRepo.GetByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if pre := snapshot.Accrue(now); !pre.HasCredit() && !pre.Complete {
		return &AccrualResult{InvestmentID: investmentID, Accrual: pre}, nil
	}

	var (
		result  *AccrualResult
		updated *domain.Investment
		account *domain.Account
	)

	err = uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		inv, err := uc.investmentRepo.GetByIDForUpdate(ctx, tx, investmentID)
		if err != nil {
			return err
		}

		acc := inv.Accrue(now)
		result = &AccrualResult{InvestmentID: inv.ID, Accrual: acc}
		updated, account = nil, nil
		if !acc.HasCredit() && !acc.Complete {
			return nil
		}

		if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, inv.AccountID); err != nil {
			return err
		}

		inv.ApplyAccrual(acc, now)
		if err := uc.investmentRepo.Update(ctx, tx, inv); err != nil {
			return err
		}

		if acc.HasCredit() {
			account, err = uc.accountRepo.ApplyDelta(ctx, tx, inv.AccountID, acc.DeltaRoi, acc.DeltaBonus, now)
			if err != nil {
				return err
			}
		}

		eventType := domain.EventTypeInvestmentAccrued
		if inv.Status == domain.InvestmentStatusExpired {
			eventType = domain.EventTypeInvestmentExpired
		}
		if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   inv.ID,
			AggregateType: domain.AggregateTypeInvestment,
			EventType:     eventType,
			Payload: map[string]any{
				"investment_id":  inv.ID,
				"account_id":     inv.AccountID,
				"elapsed_days":   acc.ElapsedDays,
				"roi_delta":      acc.DeltaRoi.String(),
				"bonus_delta":    acc.DeltaBonus.String(),
				"credited_roi":   inv.CreditedRoi.String(),
				"credited_bonus": inv.CreditedBonus.String(),
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		result.CreditedRoi = inv.CreditedRoi.String()
		result.CreditedBonus = inv.CreditedBonus.String()
		result.Expired = inv.Status == domain.InvestmentStatusExpired
		updated = inv
		return nil
	})
	if err != nil {
		uc.effects.ledgerError("accrue", err)
		return nil, err
	}

	if updated == nil {
		return result, nil
	}

	if m := uc.effects.Metrics; m != nil {
		m.AccrualCredited.WithLabelValues("roi").Add(result.Accrual.DeltaRoi.InexactFloat64())
		m.AccrualCredited.WithLabelValues("bonus").Add(result.Accrual.DeltaBonus.InexactFloat64())
		if result.Expired {
			m.InvestmentsExpired.Inc()
		}
	}
	if result.Expired {
		uc.effects.notify(ctx, domain.NewInvestmentCompleteNotification(updated))
	}
	uc.effects.publish(ctx, investmentChange(updated))
	if account != nil {
		uc.effects.publish(ctx, accountChange(account))
	}

	return result, nil
}

// AccrualRunReport summarizes one AccrueAll pass.
type AccrualRunReport struct {
	Scanned  int64
	Credited int64
	Expired  int64
	Failed   int64
	Duration time.Duration
}

// AccrueAll runs AccrueInvestment over every active investment with bounded
// concurrency. A failure on one investment is logged and counted; the run
// continues with the rest.
func (uc *AccrualUseCase) AccrueAll(ctx context.Context) (*AccrualRunReport, error) {
	start := time.Now()
	var scanned, credited, expired, failed atomic.Int64

	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := uc.investmentRepo.ListActive(ctx, afterID, uc.pageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(uc.concurrency)

		for _, inv := range page {
			id := inv.ID
			g.Go(func() error {
				scanned.Add(1)
				res, err := uc.AccrueInvestment(gCtx, id)
				if err != nil {
					failed.Add(1)
					if uc.effects.Metrics != nil {
						uc.effects.Metrics.AccrualFailures.Inc()
					}
					uc.effects.Logger.Error().Err(err).Str("investment_id", id).Msg("accrual failed")
					return nil
				}
				if res.Accrual.HasCredit() {
					credited.Add(1)
				}
				if res.Expired {
					expired.Add(1)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		afterID = page[len(page)-1].ID
		if len(page) < uc.pageSize {
			break
		}
	}

	report := &AccrualRunReport{
		Scanned:  scanned.Load(),
		Credited: credited.Load(),
		Expired:  expired.Load(),
		Failed:   failed.Load(),
		Duration: time.Since(start),
	}

	if uc.effects.Metrics != nil {
		uc.effects.Metrics.AccrualDuration.Observe(report.Duration.Seconds())
	}
	uc.effects.Logger.Info().
		Int64("scanned", report.Scanned).
		Int64("credited", report.Credited).
		Int64("expired", report.Expired).
		Int64("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("accrual run finished")

	return report, nil
}
