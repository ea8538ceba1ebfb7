package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/usecase"
)

// Store is an in-memory ledger shared by the mock repositories. Begin holds
// the store lock until Commit or Rollback, so transactions serialize the way
// row locks serialize them in Postgres. Rollback restores the snapshot taken
// at Begin.
type Store struct {
	mu sync.Mutex

	Accounts    map[string]*domain.Account
	Investments map[string]*domain.Investment
	Loans       map[string]*domain.Loan
	Codes       map[string]*domain.WithdrawalCode
	Withdrawals map[string]*domain.Withdrawal
	Outbox      []*domain.OutboxEvent

	// Aged holds record timestamps per retention category.
	Aged map[domain.RetentionCategory][]time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Accounts:    make(map[string]*domain.Account),
		Investments: make(map[string]*domain.Investment),
		Loans:       make(map[string]*domain.Loan),
		Codes:       make(map[string]*domain.WithdrawalCode),
		Withdrawals: make(map[string]*domain.Withdrawal),
		Aged:        make(map[domain.RetentionCategory][]time.Time),
	}
}

// PutAccount seeds an account with the given balance and bonus.
func (s *Store) PutAccount(id string, balance, bonus decimal.Decimal) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := &domain.Account{ID: id, Balance: balance, Bonus: bonus, KYCStatus: domain.KYCStatusVerified}
	s.Accounts[id] = acc
	return copyAccount(acc)
}

// PutInvestment seeds an investment.
func (s *Store) PutInvestment(inv *domain.Investment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *inv
	s.Investments[inv.ID] = &c
}

// PutLoan seeds a loan.
func (s *Store) PutLoan(loan *domain.Loan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *loan
	s.Loans[loan.ID] = &c
}

// PutCode seeds a withdrawal code.
func (s *Store) PutCode(code *domain.WithdrawalCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *code
	s.Codes[code.Code] = &c
}

// AddAged seeds a record of category created at at.
func (s *Store) AddAged(category domain.RetentionCategory, at ...time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Aged[category] = append(s.Aged[category], at...)
}

// Account returns a copy of the stored account, or nil.
func (s *Store) Account(id string) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.Accounts[id]; ok {
		return copyAccount(acc)
	}
	return nil
}

// Investment returns a copy of the stored investment, or nil.
func (s *Store) Investment(id string) *domain.Investment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.Investments[id]; ok {
		c := *inv
		return &c
	}
	return nil
}

// Code returns a copy of the stored withdrawal code, or nil.
func (s *Store) Code(code string) *domain.WithdrawalCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.Codes[code]; ok {
		cc := *c
		return &cc
	}
	return nil
}

// OutboxEvents returns the event types written so far, in order.
func (s *Store) OutboxEvents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.Outbox))
	for _, ev := range s.Outbox {
		types = append(types, ev.EventType)
	}
	return types
}

// WithdrawalCount returns the number of stored withdrawal requests.
func (s *Store) WithdrawalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Withdrawals)
}

// AgedCount returns the number of records left in category.
func (s *Store) AgedCount(category domain.RetentionCategory) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Aged[category])
}

type snapshot struct {
	accounts    map[string]domain.Account
	investments map[string]domain.Investment
	loans       map[string]domain.Loan
	codes       map[string]domain.WithdrawalCode
	withdrawals map[string]domain.Withdrawal
	outbox      int
}

func (s *Store) snapshot() *snapshot {
	snap := &snapshot{
		accounts:    make(map[string]domain.Account, len(s.Accounts)),
		investments: make(map[string]domain.Investment, len(s.Investments)),
		loans:       make(map[string]domain.Loan, len(s.Loans)),
		codes:       make(map[string]domain.WithdrawalCode, len(s.Codes)),
		withdrawals: make(map[string]domain.Withdrawal, len(s.Withdrawals)),
		outbox:      len(s.Outbox),
	}
	for k, v := range s.Accounts {
		snap.accounts[k] = *v
	}
	for k, v := range s.Investments {
		snap.investments[k] = *v
	}
	for k, v := range s.Loans {
		snap.loans[k] = *v
	}
	for k, v := range s.Codes {
		snap.codes[k] = *v
	}
	for k, v := range s.Withdrawals {
		snap.withdrawals[k] = *v
	}
	return snap
}

func (s *Store) restore(snap *snapshot) {
	s.Accounts = make(map[string]*domain.Account, len(snap.accounts))
	for k, v := range snap.accounts {
		v := v
		s.Accounts[k] = &v
	}
	s.Investments = make(map[string]*domain.Investment, len(snap.investments))
	for k, v := range snap.investments {
		v := v
		s.Investments[k] = &v
	}
	s.Loans = make(map[string]*domain.Loan, len(snap.loans))
	for k, v := range snap.loans {
		v := v
		s.Loans[k] = &v
	}
	s.Codes = make(map[string]*domain.WithdrawalCode, len(snap.codes))
	for k, v := range snap.codes {
		v := v
		s.Codes[k] = &v
	}
	s.Withdrawals = make(map[string]*domain.Withdrawal, len(snap.withdrawals))
	for k, v := range snap.withdrawals {
		v := v
		s.Withdrawals[k] = &v
	}
	s.Outbox = s.Outbox[:snap.outbox]
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

// MockTransactionManager is a mock implementation of TransactionManager
// backed by a Store.
type MockTransactionManager struct {
	store *Store

	mu         sync.Mutex
	commitErrs []error
	begins     atomic.Int64

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager(store *Store) *MockTransactionManager {
	return &MockTransactionManager{store: store}
}

// FailCommits makes the next commits fail with errs, in order. A nil entry
// lets that commit through.
func (m *MockTransactionManager) FailCommits(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitErrs = append(m.commitErrs, errs...)
}

// Begins returns how many transactions were started.
func (m *MockTransactionManager) Begins() int {
	return int(m.begins.Load())
}

func (m *MockTransactionManager) nextCommitErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.commitErrs) == 0 {
		return nil
	}
	err := m.commitErrs[0]
	m.commitErrs = m.commitErrs[1:]
	return err
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.begins.Add(1)
	m.store.mu.Lock()
	return &MockTransaction{manager: m, snap: m.store.snapshot()}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	manager *MockTransactionManager
	snap    *snapshot
	done    bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("tx closed")
	}
	if err := t.manager.nextCommitErr(); err != nil {
		_ = t.Rollback(ctx)
		return err
	}
	t.done = true
	t.manager.store.mu.Unlock()
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.manager.store.restore(t.snap)
	t.manager.store.mu.Unlock()
	return nil
}

// MockAccountRepository is a mock implementation of AccountRepository.
// Methods taking a transaction expect the store lock to be held by it.
type MockAccountRepository struct {
	store *Store

	GetByIDFunc    func(ctx context.Context, id string) (*domain.Account, error)
	ApplyDeltaFunc func(ctx context.Context, tx usecase.Transaction, id string, deltaBalance, deltaBonus decimal.Decimal, at time.Time) (*domain.Account, error)
}

func NewMockAccountRepository(store *Store) *MockAccountRepository {
	return &MockAccountRepository{store: store}
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	if acc := m.store.Account(id); acc != nil {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if acc, ok := m.store.Accounts[id]; ok {
		return copyAccount(acc), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, id string, deltaBalance, deltaBonus decimal.Decimal, at time.Time) (*domain.Account, error) {
	if m.ApplyDeltaFunc != nil {
		return m.ApplyDeltaFunc(ctx, tx, id, deltaBalance, deltaBonus, at)
	}
	acc, ok := m.store.Accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if err := acc.ValidateDelta(deltaBalance, deltaBonus); err != nil {
		return nil, err
	}
	acc.Balance = acc.Balance.Add(deltaBalance)
	acc.Bonus = acc.Bonus.Add(deltaBonus)
	acc.Version++
	acc.UpdatedAt = at
	return copyAccount(acc), nil
}

// MockInvestmentRepository is a mock implementation of InvestmentRepository.
type MockInvestmentRepository struct {
	store *Store

	UpdateFunc     func(ctx context.Context, tx usecase.Transaction, inv *domain.Investment) error
	ListActiveFunc func(ctx context.Context, afterID string, limit int) ([]*domain.Investment, error)
}

func NewMockInvestmentRepository(store *Store) *MockInvestmentRepository {
	return &MockInvestmentRepository{store: store}
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id string) (*domain.Investment, error) {
	if inv := m.store.Investment(id); inv != nil {
		return inv, nil
	}
	return nil, domain.ErrInvestmentNotFound
}

func (m *MockInvestmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Investment, error) {
	if inv, ok := m.store.Investments[id]; ok {
		c := *inv
		return &c, nil
	}
	return nil, domain.ErrInvestmentNotFound
}

func (m *MockInvestmentRepository) Update(ctx context.Context, tx usecase.Transaction, inv *domain.Investment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, inv)
	}
	if _, ok := m.store.Investments[inv.ID]; !ok {
		return domain.ErrInvestmentNotFound
	}
	c := *inv
	m.store.Investments[inv.ID] = &c
	return nil
}

func (m *MockInvestmentRepository) ListActive(ctx context.Context, afterID string, limit int) ([]*domain.Investment, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, afterID, limit)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var out []*domain.Investment
	for _, inv := range m.store.Investments {
		if inv.Status == domain.InvestmentStatusActive && inv.ID > afterID {
			c := *inv
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockInvestmentRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Investment, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var out []*domain.Investment
	for _, inv := range m.store.Investments {
		if inv.AccountID == accountID {
			c := *inv
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// MockLoanRepository is a mock implementation of LoanRepository.
type MockLoanRepository struct {
	store *Store
}

func NewMockLoanRepository(store *Store) *MockLoanRepository {
	return &MockLoanRepository{store: store}
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if loan, ok := m.store.Loans[id]; ok {
		c := *loan
		return &c, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	if loan, ok := m.store.Loans[id]; ok {
		c := *loan
		return &c, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if _, ok := m.store.Loans[loan.ID]; !ok {
		return domain.ErrLoanNotFound
	}
	c := *loan
	m.store.Loans[loan.ID] = &c
	return nil
}

// MockWithdrawalCodeRepository is a mock implementation of WithdrawalCodeRepository.
type MockWithdrawalCodeRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, code *domain.WithdrawalCode) error
}

func NewMockWithdrawalCodeRepository(store *Store) *MockWithdrawalCodeRepository {
	return &MockWithdrawalCodeRepository{store: store}
}

func (m *MockWithdrawalCodeRepository) Create(ctx context.Context, tx usecase.Transaction, code *domain.WithdrawalCode) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, code)
	}
	if _, exists := m.store.Codes[code.Code]; exists {
		return domain.ErrDuplicateCode
	}
	c := *code
	m.store.Codes[code.Code] = &c
	return nil
}

func (m *MockWithdrawalCodeRepository) Redeem(ctx context.Context, tx usecase.Transaction, code, accountID string, now time.Time) (*domain.WithdrawalCode, error) {
	c, ok := m.store.Codes[code]
	if !ok || c.AccountID != accountID || !c.Redeemable(now) {
		return nil, domain.ErrInvalidOrExpiredCode
	}
	c.Used = true
	usedAt := now
	c.UsedAt = &usedAt
	cc := *c
	return &cc, nil
}

func (m *MockWithdrawalCodeRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, code string) (*domain.WithdrawalCode, error) {
	c, ok := m.store.Codes[code]
	if !ok {
		return nil, domain.ErrInvalidOrExpiredCode
	}
	cc := *c
	return &cc, nil
}

func (m *MockWithdrawalCodeRepository) ListExpiredUnnotified(ctx context.Context, now time.Time, limit int) ([]*domain.WithdrawalCode, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var out []*domain.WithdrawalCode
	for _, c := range m.store.Codes {
		if !c.Used && !c.NotifiedExpiry && !c.ExpiresAt.After(now) {
			cc := *c
			out = append(out, &cc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockWithdrawalCodeRepository) MarkExpiryNotified(ctx context.Context, code string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	c, ok := m.store.Codes[code]
	if !ok || c.NotifiedExpiry {
		return false, nil
	}
	c.NotifiedExpiry = true
	return true, nil
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository.
type MockWithdrawalRepository struct {
	store *Store
}

func NewMockWithdrawalRepository(store *Store) *MockWithdrawalRepository {
	return &MockWithdrawalRepository{store: store}
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, tx usecase.Transaction, w *domain.Withdrawal) error {
	if w.Code != "" {
		for _, existing := range m.store.Withdrawals {
			if existing.Code == w.Code {
				return domain.ErrInvalidOrExpiredCode
			}
		}
	}
	c := *w
	m.store.Withdrawals[w.ID] = &c
	return nil
}

func (m *MockWithdrawalRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Withdrawal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var out []*domain.Withdrawal
	for _, w := range m.store.Withdrawals {
		if w.AccountID == accountID {
			c := *w
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, limit, offset), nil
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.Mutex
	notifications []*domain.Notification
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

// Notify records n, so the repository doubles as a Notifier.
func (m *MockNotificationRepository) Notify(ctx context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = fmt.Sprintf("notification-%03d", len(m.notifications)+1)
	m.notifications = append(m.notifications, &n)
	return nil
}

// Kinds returns the kinds of all recorded notifications, in order.
func (m *MockNotificationRepository) Kinds() []domain.NotificationKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]domain.NotificationKind, 0, len(m.notifications))
	for _, n := range m.notifications {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func (m *MockNotificationRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if n := m.notifications[i]; n.AccountID == accountID {
			c := *n
			out = append(out, &c)
		}
	}
	return page(out, limit, offset), nil
}

// MockRetentionRepository is a mock implementation of RetentionRepository
// over Store.Aged.
type MockRetentionRepository struct {
	store *Store

	DeleteBatchFunc func(ctx context.Context, category domain.RetentionCategory, cutoff time.Time, limit int) (int64, error)
}

func NewMockRetentionRepository(store *Store) *MockRetentionRepository {
	return &MockRetentionRepository{store: store}
}

func (m *MockRetentionRepository) Count(ctx context.Context, category domain.RetentionCategory, cutoff time.Time) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var n int64
	for _, at := range m.store.Aged[category] {
		if at.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (m *MockRetentionRepository) DeleteBatch(ctx context.Context, category domain.RetentionCategory, cutoff time.Time, limit int) (int64, error) {
	if m.DeleteBatchFunc != nil {
		return m.DeleteBatchFunc(ctx, category, cutoff, limit)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var (
		kept    []time.Time
		deleted int64
	)
	for _, at := range m.store.Aged[category] {
		if at.Before(cutoff) && deleted < int64(limit) {
			deleted++
			continue
		}
		kept = append(kept, at)
	}
	m.store.Aged[category] = kept
	return deleted, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository(store *Store) *MockOutboxRepository {
	return &MockOutboxRepository{store: store}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	c := *event
	m.store.Outbox = append(m.store.Outbox, &c)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var out []*domain.OutboxEvent
	for _, ev := range m.store.Outbox {
		if !ev.Published {
			c := *ev
			out = append(out, &c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, ev := range m.store.Outbox {
		if ev.ID == id {
			ev.Published = true
			at := publishedAt
			ev.PublishedAt = &at
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var (
		kept    []*domain.OutboxEvent
		deleted int64
	)
	for _, ev := range m.store.Outbox {
		if ev.Published && ev.PublishedAt != nil && ev.PublishedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	m.store.Outbox = kept
	return deleted, nil
}

// MockIDGenerator is a mock implementation of IDGenerator producing
// lexically ordered ids.
type MockIDGenerator struct {
	counter atomic.Int64

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return fmt.Sprintf("mock-id-%06d", m.counter.Add(1))
}

// MockClock is a settable Clock.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockRetrier reruns an operation while it fails with a retryable error, up
// to Attempts times.
type MockRetrier struct {
	Attempts int
	calls    atomic.Int64
}

func (r *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		r.calls.Add(1)
		if err = operation(); err == nil || !domain.IsRetryable(err) {
			return err
		}
	}
	return err
}

// Calls returns how many times an operation was run.
func (r *MockRetrier) Calls() int {
	return int(r.calls.Load())
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Stored returns the value held for key.
func (m *MockIdempotencyStore) Stored(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
