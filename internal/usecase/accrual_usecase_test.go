package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/usecase"
)

const day = 24 * time.Hour

func activeInvestment(id, accountID string) *domain.Investment {
	approvedAt := t0
	return &domain.Investment{
		ID:            id,
		AccountID:     accountID,
		Plan:          "Gold",
		Capital:       dec("1000"),
		RoiTarget:     dec("5000"),
		BonusTarget:   dec("5000"),
		CreditedRoi:   decimal.Zero,
		CreditedBonus: decimal.Zero,
		DurationDays:  10,
		Status:        domain.InvestmentStatusActive,
		ApprovedAt:    &approvedAt,
	}
}

func TestAccrualUseCase_AccrueInvestment(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", dec("1000"), decimal.Zero)
	f.store.PutInvestment(activeInvestment("inv-1", "acc-1"))
	uc := f.accrual()

	// Day 3 of 10.
	f.clock.Set(t0.Add(2*day + time.Hour))
	res, err := uc.AccrueInvestment(context.Background(), "inv-1")
	require.NoError(t, err)
	requireDecimal(t, "1500", res.Accrual.DeltaRoi)
	requireDecimal(t, "1500", res.Accrual.DeltaBonus)
	assert.False(t, res.Expired)

	acc := f.store.Account("acc-1")
	requireDecimal(t, "2500", acc.Balance)
	requireDecimal(t, "1500", acc.Bonus)

	// Same instant again pays nothing.
	res, err = uc.AccrueInvestment(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.False(t, res.Accrual.HasCredit())
	requireDecimal(t, "2500", f.store.Account("acc-1").Balance)

	// Well past the end.
	f.clock.Set(t0.Add(30 * day))
	res, err = uc.AccrueInvestment(context.Background(), "inv-1")
	require.NoError(t, err)
	requireDecimal(t, "3500", res.Accrual.DeltaRoi)
	assert.True(t, res.Expired)

	inv := f.store.Investment("inv-1")
	assert.Equal(t, domain.InvestmentStatusExpired, inv.Status)
	requireDecimal(t, "5000", inv.CreditedRoi)
	requireDecimal(t, "5000", inv.CreditedBonus)

	acc = f.store.Account("acc-1")
	requireDecimal(t, "6000", acc.Balance)
	requireDecimal(t, "5000", acc.Bonus)

	// Expired investments never pay again.
	f.clock.Advance(5 * day)
	res, err = uc.AccrueInvestment(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.False(t, res.Accrual.HasCredit())
	requireDecimal(t, "6000", f.store.Account("acc-1").Balance)

	assert.Equal(t, []string{domain.EventTypeInvestmentAccrued, domain.EventTypeInvestmentExpired}, f.store.OutboxEvents())
	assert.Equal(t, []domain.NotificationKind{domain.NotificationInvestmentComplete}, f.notifications.Kinds())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.InvestmentsExpired))
	assert.Equal(t, float64(5000), testutil.ToFloat64(f.metrics.AccrualCredited.WithLabelValues("roi")))
}

func TestAccrualUseCase_AccrueInvestmentConcurrent(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
	f.store.PutInvestment(activeInvestment("inv-1", "acc-1"))
	f.clock.Set(t0.Add(2*day + time.Hour))
	uc := f.accrual()

	const callers = 16
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.AccrueInvestment(context.Background(), "inv-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	acc := f.store.Account("acc-1")
	requireDecimal(t, "1500", acc.Balance)
	requireDecimal(t, "1500", acc.Bonus)

	inv := f.store.Investment("inv-1")
	requireDecimal(t, "1500", inv.CreditedRoi)
	requireDecimal(t, "1500", inv.CreditedBonus)
}

func TestAccrualUseCase_LumpSumBonusNotPaidTwice(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
	f.pendingInvestment("inv-1", "acc-1", 1000)

	_, err := f.ledger(nil).ApproveInvestment(context.Background(), usecase.ApproveInvestmentInput{
		InvestmentID:   "inv-1",
		RoiTarget:      dec("5000"),
		BonusTarget:    dec("5000"),
		CreditBonusNow: true,
	})
	require.NoError(t, err)

	f.clock.Set(t0.Add(12 * day))
	res, err := f.accrual().AccrueInvestment(context.Background(), "inv-1")
	require.NoError(t, err)
	requireDecimal(t, "5000", res.Accrual.DeltaRoi)
	requireDecimal(t, "0", res.Accrual.DeltaBonus)
	assert.True(t, res.Expired)

	acc := f.store.Account("acc-1")
	requireDecimal(t, "6000", acc.Balance)
	requireDecimal(t, "5000", acc.Bonus)
}

func TestAccrualUseCase_AccrueInvestmentErrors(t *testing.T) {
	t.Run("unknown investment", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.accrual().AccrueInvestment(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrInvestmentNotFound)
	})

	t.Run("pending investment is skipped", func(t *testing.T) {
		f := newFixture(t)
		f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
		f.pendingInvestment("inv-1", "acc-1", 1000)

		res, err := f.accrual().AccrueInvestment(context.Background(), "inv-1")
		require.NoError(t, err)
		assert.False(t, res.Accrual.HasCredit())
		assert.Zero(t, f.txManager.Begins())
	})

	t.Run("missing account rolls back", func(t *testing.T) {
		f := newFixture(t)
		f.store.PutInvestment(activeInvestment("inv-1", "ghost"))
		f.clock.Set(t0.Add(day))

		_, err := f.accrual().AccrueInvestment(context.Background(), "inv-1")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
		requireDecimal(t, "0", f.store.Investment("inv-1").CreditedRoi)
	})
}

func TestAccrualUseCase_AccrueAll(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
	f.store.PutAccount("acc-2", decimal.Zero, decimal.Zero)

	for i := 1; i <= 5; i++ {
		accountID := "acc-1"
		if i%2 == 0 {
			accountID = "acc-2"
		}
		f.store.PutInvestment(activeInvestment(fmt.Sprintf("inv-%d", i), accountID))
	}
	// Broken row: its account is gone, it must not stop the run.
	f.store.PutInvestment(activeInvestment("inv-9", "ghost"))
	f.pendingInvestment("inv-p", "acc-1", 500)

	f.clock.Set(t0.Add(15 * day))
	report, err := f.accrual().AccrueAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(6), report.Scanned)
	assert.Equal(t, int64(5), report.Credited)
	assert.Equal(t, int64(5), report.Expired)
	assert.Equal(t, int64(1), report.Failed)

	// acc-1 holds inv-1, inv-3, inv-5.
	acc1 := f.store.Account("acc-1")
	requireDecimal(t, "15000", acc1.Balance)
	requireDecimal(t, "15000", acc1.Bonus)
	acc2 := f.store.Account("acc-2")
	requireDecimal(t, "10000", acc2.Balance)

	assert.Equal(t, domain.InvestmentStatusPending, f.store.Investment("inv-p").Status)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.AccrualFailures))

	// A second pass finds only the broken row still active.
	report, err = f.accrual().AccrueAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Scanned)
	assert.Equal(t, int64(0), report.Credited)
}

func TestAccrualUseCase_AccrueAllCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.accrual().AccrueAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
