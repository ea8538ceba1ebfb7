package usecase_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/metrics"
	"github.com/iho/mintledger/internal/usecase"
	"github.com/iho/mintledger/internal/usecase/mocks"
)

var t0 = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store         *mocks.Store
	txManager     *mocks.MockTransactionManager
	accounts      *mocks.MockAccountRepository
	investments   *mocks.MockInvestmentRepository
	loans         *mocks.MockLoanRepository
	codes         *mocks.MockWithdrawalCodeRepository
	withdrawals   *mocks.MockWithdrawalRepository
	notifications *mocks.MockNotificationRepository
	retention     *mocks.MockRetentionRepository
	outbox        *mocks.MockOutboxRepository
	ids           *mocks.MockIDGenerator
	clock         *mocks.MockClock
	metrics       *metrics.Metrics
	effects       usecase.Effects
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := mocks.NewStore()
	f := &fixture{
		store:         store,
		txManager:     mocks.NewMockTransactionManager(store),
		accounts:      mocks.NewMockAccountRepository(store),
		investments:   mocks.NewMockInvestmentRepository(store),
		loans:         mocks.NewMockLoanRepository(store),
		codes:         mocks.NewMockWithdrawalCodeRepository(store),
		withdrawals:   mocks.NewMockWithdrawalRepository(store),
		notifications: mocks.NewMockNotificationRepository(),
		retention:     mocks.NewMockRetentionRepository(store),
		outbox:        mocks.NewMockOutboxRepository(store),
		ids:           mocks.NewMockIDGenerator(),
		clock:         mocks.NewMockClock(t0),
		metrics:       metrics.NewWithRegisterer(prometheus.NewRegistry()),
	}
	f.effects = usecase.Effects{
		Notifier: f.notifications,
		Metrics:  f.metrics,
		Logger:   zerolog.Nop(),
	}
	return f
}

func (f *fixture) ledger(retrier usecase.Retrier) *usecase.LedgerUseCase {
	return usecase.NewLedgerUseCase(f.txManager, retrier, f.accounts, f.investments, f.loans, f.outbox, f.ids, f.clock, f.effects)
}

func (f *fixture) accrual() *usecase.AccrualUseCase {
	return usecase.NewAccrualUseCase(f.txManager, nil, f.accounts, f.investments, f.outbox, f.ids, f.clock, f.effects, 2, 4)
}

func (f *fixture) codeAuthority() *usecase.WithdrawalCodeUseCase {
	return usecase.NewWithdrawalCodeUseCase(f.txManager, nil, f.accounts, f.codes, f.outbox, f.ids, f.clock, f.effects, 0)
}

func (f *fixture) processor(oracle usecase.PriceOracle) *usecase.WithdrawalUseCase {
	return usecase.NewWithdrawalUseCase(f.txManager, nil, f.accounts, f.codes, f.withdrawals, f.outbox, oracle, f.ids, f.clock, f.effects)
}

func (f *fixture) pendingInvestment(id, accountID string, capital int64) {
	f.store.PutInvestment(&domain.Investment{
		ID:           id,
		AccountID:    accountID,
		Plan:         "Gold",
		Capital:      decimal.NewFromInt(capital),
		DurationDays: 10,
		Status:       domain.InvestmentStatusPending,
		CreatedAt:    t0,
	})
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}
