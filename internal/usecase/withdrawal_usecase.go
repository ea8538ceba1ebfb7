package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/mintledger/internal/domain"
)

// WithdrawalUseCase turns redeemed codes into payout requests.
type WithdrawalUseCase struct {
	tx             txRunner
	accountRepo    AccountRepository
	codeRepo       WithdrawalCodeRepository
	withdrawalRepo WithdrawalRepository
	outboxRepo     OutboxRepository
	oracle         PriceOracle
	idGen          IDGenerator
	clock          Clock
	effects        Effects
}

// NewWithdrawalUseCase creates a new WithdrawalUseCase.
func NewWithdrawalUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	codeRepo WithdrawalCodeRepository,
	withdrawalRepo WithdrawalRepository,
	outboxRepo OutboxRepository,
	oracle PriceOracle,
	idGen IDGenerator,
	clock Clock,
	effects Effects,
) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		tx:             txRunner{txManager: txManager, retrier: retrier},
		accountRepo:    accountRepo,
		codeRepo:       codeRepo,
		withdrawalRepo: withdrawalRepo,
		outboxRepo:     outboxRepo,
		oracle:         oracle,
		idGen:          idGen,
		clock:          clock,
		effects:        effects,
	}
}

// WithdrawalInput represents a withdrawal request.
type WithdrawalInput struct {
	AccountID     string
	Amount        decimal.Decimal
	Code          string
	PaymentOption domain.PaymentOption
}

// CreateWithdrawalRequest persists a pending withdrawal priced in the chosen
// asset for a code the account already redeemed for exactly input.Amount.
// The account is not debited.
func (uc *WithdrawalUseCase) CreateWithdrawalRequest(ctx context.Context, input WithdrawalInput) (*domain.Withdrawal, error) {
	w, err := uc.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	err = uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		c, err := uc.codeRepo.GetForUpdate(ctx, tx, input.Code)
		if err != nil {
			return err
		}
		if !c.Used || c.AccountID != input.AccountID || !c.Amount.Equal(input.Amount) {
			return domain.ErrInvalidOrExpiredCode
		}
		w.CreatedAt = uc.clock.Now()
		return uc.persist(ctx, tx, w)
	})
	if err != nil {
		uc.effects.ledgerError("create_withdrawal", err)
		return nil, err
	}

	uc.afterCreate(ctx, w)
	return w, nil
}

// Withdraw checks funds, redeems the code and records the request in one
// transaction. A code is never consumed without its request being stored,
// and is checked against the clock after the fee is priced.
func (uc *WithdrawalUseCase) Withdraw(ctx context.Context, input WithdrawalInput) (*domain.Withdrawal, error) {
	if err := domain.ValidateID(input.AccountID); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if err := account.CanWithdraw(input.Amount); err != nil {
		uc.effects.ledgerError("withdraw", err)
		return nil, err
	}

	w, err := uc.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	err = uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		now := uc.clock.Now()
		c, err := redeemInTx(ctx, tx, uc.codeRepo, uc.outboxRepo, uc.idGen, input.Code, input.AccountID, now)
		if err != nil {
			return err
		}
		if !c.Amount.Equal(input.Amount) {
			return domain.ErrInvalidOrExpiredCode
		}
		w.CreatedAt = now
		return uc.persist(ctx, tx, w)
	})
	recordRedemption(uc.effects, err)
	if err != nil {
		return nil, err
	}

	uc.afterCreate(ctx, w)
	return w, nil
}

// prepare validates input and prices the fee. Oracle failures leave Fee nil.
// CreatedAt is provisional; callers stamp it inside their transaction.
func (uc *WithdrawalUseCase) prepare(ctx context.Context, input WithdrawalInput) (*domain.Withdrawal, error) {
	if err := domain.ValidateID(input.AccountID); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	asset, err := input.PaymentOption.Asset()
	if err != nil {
		return nil, err
	}

	w := &domain.Withdrawal{
		ID:            uc.idGen.Generate(),
		AccountID:     input.AccountID,
		Amount:        input.Amount,
		Code:          input.Code,
		PaymentOption: input.PaymentOption,
		FeeAsset:      asset,
		Status:        domain.WithdrawalStatusPending,
		CreatedAt:     uc.clock.Now(),
	}

	if fee, err := uc.fee(ctx, input.Amount, asset); err != nil {
		uc.effects.Logger.Warn().Err(err).
			Str("account_id", input.AccountID).
			Str("asset", asset).
			Msg("withdrawal fee not priced")
	} else {
		w.Fee = &fee
	}

	return w, nil
}

func (uc *WithdrawalUseCase) fee(ctx context.Context, amount decimal.Decimal, asset string) (decimal.Decimal, error) {
	if uc.oracle == nil {
		return decimal.Zero, domain.ErrPriceUnavailable
	}
	price, err := uc.oracle.Price(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.WithdrawalFee(amount, price)
}

func (uc *WithdrawalUseCase) persist(ctx context.Context, tx Transaction, w *domain.Withdrawal) error {
	if err := uc.withdrawalRepo.Create(ctx, tx, w); err != nil {
		return err
	}

	payload := map[string]any{
		"withdrawal_id":  w.ID,
		"account_id":     w.AccountID,
		"amount":         w.Amount.String(),
		"payment_option": string(w.PaymentOption),
		"fee_asset":      w.FeeAsset,
	}
	if w.Fee != nil {
		payload["fee"] = w.Fee.String()
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   w.ID,
		AggregateType: domain.AggregateTypeWithdrawal,
		EventType:     domain.EventTypeWithdrawalRequested,
		Payload:       payload,
		CreatedAt:     w.CreatedAt,
	})
}

func (uc *WithdrawalUseCase) afterCreate(ctx context.Context, w *domain.Withdrawal) {
	if uc.effects.Metrics != nil {
		uc.effects.Metrics.WithdrawalsRequested.Inc()
	}
	uc.effects.notify(ctx, domain.NewWithdrawalRequestedNotification(w))

	data := map[string]any{
		"status":         string(w.Status),
		"amount":         w.Amount.String(),
		"payment_option": string(w.PaymentOption),
	}
	if w.Fee != nil {
		data["fee"] = w.Fee.String()
	}
	uc.effects.publish(ctx, domain.ChangeEvent{
		Table:     "withdrawals",
		Type:      "insert",
		AccountID: w.AccountID,
		RecordID:  w.ID,
		Data:      data,
		At:        changeTime(w.CreatedAt),
	})
}

// ListWithdrawals returns an account's withdrawal requests, newest first.
func (uc *WithdrawalUseCase) ListWithdrawals(ctx context.Context, accountID string, limit, offset int) ([]*domain.Withdrawal, error) {
	if err := domain.ValidateID(accountID); err != nil {
		return nil, err
	}
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.withdrawalRepo.ListByAccount(ctx, accountID, limit, offset)
}

