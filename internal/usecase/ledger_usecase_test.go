package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/usecase"
	"github.com/iho/mintledger/internal/usecase/mocks"
)

func TestLedgerUseCase_ApproveInvestment(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
	f.pendingInvestment("inv-1", "acc-1", 1000)
	uc := f.ledger(nil)

	inv, err := uc.ApproveInvestment(context.Background(), usecase.ApproveInvestmentInput{
		InvestmentID: "inv-1",
		RoiTarget:    dec("5000"),
		BonusTarget:  dec("5000"),
		ApprovedBy:   "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvestmentStatusActive, inv.Status)
	require.NotNil(t, inv.ApprovedAt)
	assert.True(t, inv.ApprovedAt.Equal(t0))
	assert.Equal(t, "admin-1", inv.ApprovedBy)

	acc := f.store.Account("acc-1")
	requireDecimal(t, "1000", acc.Balance)
	requireDecimal(t, "0", acc.Bonus)

	assert.Equal(t, []string{domain.EventTypeInvestmentActivated}, f.store.OutboxEvents())
	assert.Equal(t, []domain.NotificationKind{domain.NotificationInvestmentActive}, f.notifications.Kinds())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.InvestmentsApproved))
}

func TestLedgerUseCase_ApproveInvestmentTwiceCreditsOnce(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
	f.pendingInvestment("inv-1", "acc-1", 1000)
	uc := f.ledger(nil)

	input := usecase.ApproveInvestmentInput{InvestmentID: "inv-1", RoiTarget: dec("5000"), BonusTarget: dec("5000")}

	_, err := uc.ApproveInvestment(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.ApproveInvestment(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	requireDecimal(t, "1000", f.store.Account("acc-1").Balance)
	assert.Len(t, f.store.OutboxEvents(), 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.LedgerErrors.WithLabelValues("approve_investment", "already_processed")))
}

func TestLedgerUseCase_ApproveInvestmentConcurrent(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
	f.pendingInvestment("inv-1", "acc-1", 1000)
	uc := f.ledger(nil)

	const callers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.ApproveInvestment(context.Background(), usecase.ApproveInvestmentInput{InvestmentID: "inv-1"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, domain.ErrAlreadyProcessed) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, rejected)
	requireDecimal(t, "1000", f.store.Account("acc-1").Balance)
}

func TestLedgerUseCase_ApproveInvestmentDefaults(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.ApproveInvestmentInput
		wantBalance string
		wantBonus   string
		wantRoi     string
		wantTarget  string
	}{
		{
			name:        "plan table fills targets",
			input:       usecase.ApproveInvestmentInput{InvestmentID: "inv-1"},
			wantBalance: "1000",
			wantBonus:   "0",
			wantRoi:     "5000",
			wantTarget:  "5000",
		},
		{
			name:        "capital override",
			input:       usecase.ApproveInvestmentInput{InvestmentID: "inv-1", Capital: dec("2000")},
			wantBalance: "2000",
			wantBonus:   "0",
			wantRoi:     "10000",
			wantTarget:  "10000",
		},
		{
			name: "bonus credited at approval",
			input: usecase.ApproveInvestmentInput{
				InvestmentID:   "inv-1",
				RoiTarget:      dec("300"),
				BonusTarget:    dec("40"),
				CreditBonusNow: true,
			},
			wantBalance: "1000",
			wantBonus:   "40",
			wantRoi:     "300",
			wantTarget:  "40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
			f.pendingInvestment("inv-1", "acc-1", 1000)

			inv, err := f.ledger(nil).ApproveInvestment(context.Background(), tt.input)
			require.NoError(t, err)

			acc := f.store.Account("acc-1")
			requireDecimal(t, tt.wantBalance, acc.Balance)
			requireDecimal(t, tt.wantBonus, acc.Bonus)
			requireDecimal(t, tt.wantRoi, inv.RoiTarget)
			requireDecimal(t, tt.wantTarget, inv.BonusTarget)
		})
	}
}

func TestLedgerUseCase_ApproveInvestmentErrors(t *testing.T) {
	t.Run("unknown investment", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger(nil).ApproveInvestment(context.Background(), usecase.ApproveInvestmentInput{InvestmentID: "missing"})
		require.ErrorIs(t, err, domain.ErrInvestmentNotFound)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing account rolls back", func(t *testing.T) {
		f := newFixture(t)
		f.pendingInvestment("inv-1", "ghost", 1000)

		_, err := f.ledger(nil).ApproveInvestment(context.Background(), usecase.ApproveInvestmentInput{InvestmentID: "inv-1"})
		require.ErrorIs(t, err, domain.ErrAccountNotFound)

		assert.Equal(t, domain.InvestmentStatusPending, f.store.Investment("inv-1").Status)
		assert.Empty(t, f.store.OutboxEvents())
		assert.Empty(t, f.notifications.Kinds())
	})

	t.Run("empty id", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger(nil).ApproveInvestment(context.Background(), usecase.ApproveInvestmentInput{})
		require.ErrorIs(t, err, domain.ErrInvalidIDFormat)
		assert.Zero(t, f.txManager.Begins())
	})
}

func TestLedgerUseCase_ApproveInvestmentRetriesConflicts(t *testing.T) {
	t.Run("conflict then success", func(t *testing.T) {
		f := newFixture(t)
		f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
		f.pendingInvestment("inv-1", "acc-1", 1000)
		f.txManager.FailCommits(domain.ErrTransactionConflict)
		retrier := &mocks.MockRetrier{Attempts: 3}

		_, err := f.ledger(retrier).ApproveInvestment(context.Background(), usecase.ApproveInvestmentInput{InvestmentID: "inv-1"})
		require.NoError(t, err)

		assert.Equal(t, 2, retrier.Calls())
		requireDecimal(t, "1000", f.store.Account("acc-1").Balance)
		assert.Len(t, f.store.OutboxEvents(), 1)
	})

	t.Run("conflict surfaces after attempts", func(t *testing.T) {
		f := newFixture(t)
		f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
		f.pendingInvestment("inv-1", "acc-1", 1000)
		f.txManager.FailCommits(domain.ErrTransactionConflict, domain.ErrTransactionConflict, domain.ErrTransactionConflict)
		retrier := &mocks.MockRetrier{Attempts: 3}

		_, err := f.ledger(retrier).ApproveInvestment(context.Background(), usecase.ApproveInvestmentInput{InvestmentID: "inv-1"})
		require.ErrorIs(t, err, domain.ErrTransactionConflict)
		assert.True(t, domain.IsRetryable(err))

		assert.Equal(t, 3, retrier.Calls())
		requireDecimal(t, "0", f.store.Account("acc-1").Balance)
		assert.Equal(t, domain.InvestmentStatusPending, f.store.Investment("inv-1").Status)
	})
}

func TestLedgerUseCase_ApproveLoan(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
	f.store.PutLoan(&domain.Loan{ID: "loan-1", AccountID: "acc-1", Amount: dec("1000"), Status: domain.LoanStatusPending})
	uc := f.ledger(nil)

	loan, err := uc.ApproveLoan(context.Background(), "loan-1", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusApproved, loan.Status)
	assert.Equal(t, "admin-1", loan.DecidedBy)

	acc := f.store.Account("acc-1")
	requireDecimal(t, "1000", acc.Balance)
	requireDecimal(t, "50", acc.Bonus)

	_, err = uc.ApproveLoan(context.Background(), "loan-1", "admin-1")
	require.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	_, err = uc.DeclineLoan(context.Background(), "loan-1", "admin-1")
	require.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	acc = f.store.Account("acc-1")
	requireDecimal(t, "1000", acc.Balance)
	requireDecimal(t, "50", acc.Bonus)
	assert.Equal(t, []domain.NotificationKind{domain.NotificationLoanApproved}, f.notifications.Kinds())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.LoansDecided.WithLabelValues("approved")))
}

func TestLedgerUseCase_ApproveLoanConcurrent(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
	f.store.PutLoan(&domain.Loan{ID: "loan-1", AccountID: "acc-1", Amount: dec("1000"), Status: domain.LoanStatusPending})
	uc := f.ledger(nil)

	const callers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.ApproveLoan(context.Background(), "loan-1", "admin-1")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, domain.ErrAlreadyProcessed) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, rejected)

	acc := f.store.Account("acc-1")
	requireDecimal(t, "1000", acc.Balance)
	requireDecimal(t, "50", acc.Bonus)
	assert.Equal(t, []domain.NotificationKind{domain.NotificationLoanApproved}, f.notifications.Kinds())
}

func TestLedgerUseCase_DeclineLoan(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", dec("10"), decimal.Zero)
	f.store.PutLoan(&domain.Loan{ID: "loan-1", AccountID: "acc-1", Amount: dec("1000"), Status: domain.LoanStatusPending})
	uc := f.ledger(nil)

	loan, err := uc.DeclineLoan(context.Background(), "loan-1", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusDeclined, loan.Status)

	requireDecimal(t, "10", f.store.Account("acc-1").Balance)
	assert.Equal(t, []string{domain.EventTypeLoanDeclined}, f.store.OutboxEvents())
	assert.Equal(t, []domain.NotificationKind{domain.NotificationLoanDeclined}, f.notifications.Kinds())

	_, err = uc.ApproveLoan(context.Background(), "loan-1", "admin-1")
	require.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	requireDecimal(t, "10", f.store.Account("acc-1").Balance)
}

func TestLedgerUseCase_AddFunds(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.AddFundsInput
		wantErr     error
		wantBalance string
		wantBonus   string
	}{
		{
			name:        "credit both",
			input:       usecase.AddFundsInput{AccountID: "acc-1", DeltaBalance: dec("200"), DeltaBonus: dec("10")},
			wantBalance: "300",
			wantBonus:   "15",
		},
		{
			name:        "debit within balance",
			input:       usecase.AddFundsInput{AccountID: "acc-1", DeltaBalance: dec("-100")},
			wantBalance: "0",
			wantBonus:   "5",
		},
		{
			name:        "debit below zero",
			input:       usecase.AddFundsInput{AccountID: "acc-1", DeltaBalance: dec("-100.01")},
			wantErr:     domain.ErrInsufficientFunds,
			wantBalance: "100",
			wantBonus:   "5",
		},
		{
			name:        "zero deltas",
			input:       usecase.AddFundsInput{AccountID: "acc-1"},
			wantErr:     domain.ErrInvalidAmount,
			wantBalance: "100",
			wantBonus:   "5",
		},
		{
			name:        "unknown account",
			input:       usecase.AddFundsInput{AccountID: "acc-404", DeltaBalance: dec("1")},
			wantErr:     domain.ErrAccountNotFound,
			wantBalance: "100",
			wantBonus:   "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.PutAccount("acc-1", dec("100"), dec("5"))

			acc, err := f.ledger(nil).AddFunds(context.Background(), tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, acc)
				assert.Empty(t, f.notifications.Kinds())
			} else {
				require.NoError(t, err)
				requireDecimal(t, tt.wantBalance, acc.Balance)
				assert.Equal(t, []domain.NotificationKind{domain.NotificationBalanceUpdate}, f.notifications.Kinds())
			}

			stored := f.store.Account("acc-1")
			requireDecimal(t, tt.wantBalance, stored.Balance)
			requireDecimal(t, tt.wantBonus, stored.Bonus)
		})
	}
}
