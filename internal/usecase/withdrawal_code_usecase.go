package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/mintledger/internal/domain"
)

// WithdrawalCodeUseCase issues and redeems single-use withdrawal codes.
type WithdrawalCodeUseCase struct {
	tx          txRunner
	accountRepo AccountRepository
	codeRepo    WithdrawalCodeRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	clock       Clock
	effects     Effects
	defaultTTL  time.Duration
	generate    func() (string, error)
}

// NewWithdrawalCodeUseCase creates a new WithdrawalCodeUseCase. A non-positive
// defaultTTL falls back to domain.DefaultWithdrawalCodeTTL.
func NewWithdrawalCodeUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	codeRepo WithdrawalCodeRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	effects Effects,
	defaultTTL time.Duration,
) *WithdrawalCodeUseCase {
	if defaultTTL <= 0 {
		defaultTTL = domain.DefaultWithdrawalCodeTTL
	}

	return &WithdrawalCodeUseCase{
		tx:          txRunner{txManager: txManager, retrier: retrier},
		accountRepo: accountRepo,
		codeRepo:    codeRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		clock:       clock,
		effects:     effects,
		defaultTTL:  defaultTTL,
		generate:    domain.GenerateWithdrawalCode,
	}
}

// IssueCodeInput represents input for issuing a withdrawal code.
type IssueCodeInput struct {
	AccountID string
	Amount    decimal.Decimal
	TTL       time.Duration
	IssuedBy  string
}

// IssueCode creates a fresh code for an existing account.
func (uc *WithdrawalCodeUseCase) IssueCode(ctx context.Context, input IssueCodeInput) (*domain.WithdrawalCode, error) {
	if err := domain.ValidateID(input.AccountID); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = uc.defaultTTL
	}

	var issued *domain.WithdrawalCode
	for attempt := 1; ; attempt++ {
		value, err := uc.generate()
		if err != nil {
			return nil, err
		}

		now := uc.clock.Now()
		code := &domain.WithdrawalCode{
			Code:      value,
			AccountID: input.AccountID,
			Amount:    input.Amount,
			ExpiresAt: now.Add(ttl),
			IssuedBy:  input.IssuedBy,
			CreatedAt: now,
		}

		err = uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
			if err := uc.codeRepo.Create(ctx, tx, code); err != nil {
				return err
			}
			return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
				ID:            uc.idGen.Generate(),
				AggregateID:   code.Code,
				AggregateType: domain.AggregateTypeWithdrawalCode,
				EventType:     domain.EventTypeCodeIssued,
				Payload: map[string]any{
					"account_id": code.AccountID,
					"amount":     code.Amount.String(),
					"expires_at": code.ExpiresAt,
					"issued_by":  code.IssuedBy,
				},
				CreatedAt: now,
			})
		})
		if err == nil {
			issued = code
			break
		}
		if errors.Is(err, domain.ErrDuplicateCode) && attempt < maxCodeAttempts {
			uc.effects.Logger.Debug().Int("attempt", attempt).Msg("withdrawal code collision, regenerating")
			continue
		}

		uc.effects.ledgerError("issue_code", err)
		return nil, fmt.Errorf("issue withdrawal code: %w", err)
	}

	if uc.effects.Metrics != nil {
		uc.effects.Metrics.CodesIssued.Inc()
	}
	uc.effects.Logger.Info().
		Str("account_id", issued.AccountID).
		Str("amount", issued.Amount.String()).
		Time("expires_at", issued.ExpiresAt).
		Msg("withdrawal code issued")

	return issued, nil
}

// RedeemCode consumes code for accountID. At most one caller ever succeeds
// for a given code.
func (uc *WithdrawalCodeUseCase) RedeemCode(ctx context.Context, code, accountID string) (*domain.WithdrawalCode, error) {
	var redeemed *domain.WithdrawalCode

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		c, err := redeemInTx(ctx, tx, uc.codeRepo, uc.outboxRepo, uc.idGen, code, accountID, uc.clock.Now())
		if err != nil {
			return err
		}
		redeemed = c
		return nil
	})

	recordRedemption(uc.effects, err)
	if err != nil {
		return nil, err
	}
	return redeemed, nil
}

func redeemInTx(
	ctx context.Context,
	tx Transaction,
	codeRepo WithdrawalCodeRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	code, accountID string,
	now time.Time,
) (*domain.WithdrawalCode, error) {
	if code == "" || accountID == "" {
		return nil, domain.ErrInvalidOrExpiredCode
	}

	c, err := codeRepo.Redeem(ctx, tx, code, accountID, now)
	if err != nil {
		return nil, err
	}

	if err := outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            idGen.Generate(),
		AggregateID:   c.Code,
		AggregateType: domain.AggregateTypeWithdrawalCode,
		EventType:     domain.EventTypeCodeRedeemed,
		Payload: map[string]any{
			"account_id": c.AccountID,
			"amount":     c.Amount.String(),
		},
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	return c, nil
}

func recordRedemption(e Effects, err error) {
	if e.Metrics != nil {
		result := "redeemed"
		if err != nil {
			result = errorKind(err)
		}
		e.Metrics.CodeRedemptions.WithLabelValues(result).Inc()
	}
	if err != nil {
		e.ledgerError("redeem_code", err)
	}
}

// NotifyExpiredCodes sends one expiry notification per unused code that
// lapsed before now and returns how many were sent.
func (uc *WithdrawalCodeUseCase) NotifyExpiredCodes(ctx context.Context) (int, error) {
	now := uc.clock.Now()
	sent := 0

	for {
		codes, err := uc.codeRepo.ListExpiredUnnotified(ctx, now, expiredCodePageSize)
		if err != nil {
			return sent, err
		}

		for _, c := range codes {
			claimed, err := uc.codeRepo.MarkExpiryNotified(ctx, c.Code)
			if err != nil {
				return sent, err
			}
			if !claimed {
				continue
			}
			uc.effects.notify(ctx, domain.NewCodeExpiredNotification(c))
			sent++
		}

		if len(codes) < expiredCodePageSize {
			break
		}
	}

	if sent > 0 {
		uc.effects.Logger.Info().Int("count", sent).Msg("expired withdrawal codes notified")
	}
	return sent, nil
}
