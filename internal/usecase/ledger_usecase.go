package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/mintledger/internal/domain"
)

// LedgerUseCase coordinates the multi-record ledger transitions: investment
// approval, loan decisions and administrative fund adjustments.
type LedgerUseCase struct {
	tx             txRunner
	accountRepo    AccountRepository
	investmentRepo InvestmentRepository
	loanRepo       LoanRepository
	outboxRepo     OutboxRepository
	idGen          IDGenerator
	clock          Clock
	effects        Effects
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	investmentRepo InvestmentRepository,
	loanRepo LoanRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	effects Effects,
) *LedgerUseCase {
	return &LedgerUseCase{
		tx:             txRunner{txManager: txManager, retrier: retrier},
		accountRepo:    accountRepo,
		investmentRepo: investmentRepo,
		loanRepo:       loanRepo,
		outboxRepo:     outboxRepo,
		idGen:          idGen,
		clock:          clock,
		effects:        effects,
	}
}

// ApproveInvestmentInput represents input for approving an investment.
// A zero Capital keeps the requested capital; zero targets fall back to the
// plan table when the investment's plan is known.
type ApproveInvestmentInput struct {
	InvestmentID   string
	Capital        decimal.Decimal
	RoiTarget      decimal.Decimal
	BonusTarget    decimal.Decimal
	CreditBonusNow bool
	ApprovedBy     string
}

// ApproveInvestment activates a pending investment and credits its capital.
func (uc *LedgerUseCase) ApproveInvestment(ctx context.Context, input ApproveInvestmentInput) (*domain.Investment, error) {
	if err := domain.ValidateID(input.InvestmentID); err != nil {
		return nil, err
	}

	var (
		approved *domain.Investment
		account  *domain.Account
	)

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		inv, err := uc.investmentRepo.GetByIDForUpdate(ctx, tx, input.InvestmentID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		deltaBalance, deltaBonus, err := inv.Activate(activationFor(inv, input), now)
		if err != nil {
			return err
		}

		if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, inv.AccountID); err != nil {
			return err
		}

		if err := uc.investmentRepo.Update(ctx, tx, inv); err != nil {
			return err
		}

		acc, err := uc.accountRepo.ApplyDelta(ctx, tx, inv.AccountID, deltaBalance, deltaBonus, now)
		if err != nil {
			return err
		}

		if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   inv.ID,
			AggregateType: domain.AggregateTypeInvestment,
			EventType:     domain.EventTypeInvestmentActivated,
			Payload: map[string]any{
				"investment_id":  inv.ID,
				"account_id":     inv.AccountID,
				"capital":        inv.Capital.String(),
				"roi_target":     inv.RoiTarget.String(),
				"bonus_target":   inv.BonusTarget.String(),
				"bonus_credited": deltaBonus.String(),
				"approved_by":    inv.ApprovedBy,
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		approved, account = inv, acc
		return nil
	})
	if err != nil {
		uc.effects.ledgerError("approve_investment", err)
		return nil, err
	}

	if uc.effects.Metrics != nil {
		uc.effects.Metrics.InvestmentsApproved.Inc()
	}
	uc.effects.notify(ctx, domain.NewInvestmentActiveNotification(approved))
	uc.effects.publish(ctx, investmentChange(approved))
	uc.effects.publish(ctx, accountChange(account))

	return approved, nil
}

func activationFor(inv *domain.Investment, input ApproveInvestmentInput) domain.Activation {
	a := domain.Activation{
		Capital:        input.Capital,
		RoiTarget:      input.RoiTarget,
		BonusTarget:    input.BonusTarget,
		CreditBonusNow: input.CreditBonusNow,
		ApprovedBy:     input.ApprovedBy,
	}

	if a.Capital.IsZero() {
		a.Capital = inv.Capital
	}
	if a.RoiTarget.IsZero() && a.BonusTarget.IsZero() {
		if plan, err := domain.LookupPlan(inv.Plan); err == nil {
			a.RoiTarget, a.BonusTarget = plan.Targets(a.Capital)
		}
	}

	return a
}

// ApproveLoan approves a pending loan and credits amount plus the loan bonus.
func (uc *LedgerUseCase) ApproveLoan(ctx context.Context, loanID, approvedBy string) (*domain.Loan, error) {
	return uc.decideLoan(ctx, loanID, domain.LoanStatusApproved, approvedBy)
}

// DeclineLoan declines a pending loan without touching the account.
func (uc *LedgerUseCase) DeclineLoan(ctx context.Context, loanID, declinedBy string) (*domain.Loan, error) {
	return uc.decideLoan(ctx, loanID, domain.LoanStatusDeclined, declinedBy)
}

func (uc *LedgerUseCase) decideLoan(ctx context.Context, loanID string, target domain.LoanStatus, actor string) (*domain.Loan, error) {
	if err := domain.ValidateID(loanID); err != nil {
		return nil, err
	}

	var (
		decided *domain.Loan
		account *domain.Account
	)

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		loan, err := uc.loanRepo.GetByIDForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		deltaBalance, deltaBonus, err := loan.Decide(target, actor, now)
		if err != nil {
			return err
		}

		if err := uc.loanRepo.UpdateStatus(ctx, tx, loan); err != nil {
			return err
		}

		account = nil
		if target == domain.LoanStatusApproved {
			if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, loan.AccountID); err != nil {
				return err
			}
			account, err = uc.accountRepo.ApplyDelta(ctx, tx, loan.AccountID, deltaBalance, deltaBonus, now)
			if err != nil {
				return err
			}
		}

		eventType := domain.EventTypeLoanDeclined
		if target == domain.LoanStatusApproved {
			eventType = domain.EventTypeLoanApproved
		}
		if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   loan.ID,
			AggregateType: domain.AggregateTypeLoan,
			EventType:     eventType,
			Payload: map[string]any{
				"loan_id":       loan.ID,
				"account_id":    loan.AccountID,
				"amount":        loan.Amount.String(),
				"balance_delta": deltaBalance.String(),
				"bonus_delta":   deltaBonus.String(),
				"decided_by":    actor,
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		decided = loan
		return nil
	})
	if err != nil {
		uc.effects.ledgerError("decide_loan", err)
		return nil, err
	}

	if uc.effects.Metrics != nil {
		uc.effects.Metrics.LoansDecided.WithLabelValues(string(target)).Inc()
	}
	uc.effects.notify(ctx, domain.NewLoanDecisionNotification(decided))
	uc.effects.publish(ctx, domain.ChangeEvent{
		Table:     "loans",
		Type:      "update",
		AccountID: decided.AccountID,
		RecordID:  decided.ID,
		Data:      map[string]any{"status": string(decided.Status)},
		At:        decided.UpdatedAt,
	})
	if account != nil {
		uc.effects.publish(ctx, accountChange(account))
	}

	return decided, nil
}

// AddFundsInput represents an administrative balance adjustment.
type AddFundsInput struct {
	AccountID    string
	DeltaBalance decimal.Decimal
	DeltaBonus   decimal.Decimal
	Actor        string
}

// AddFunds atomically adjusts an account and notifies its holder.
func (uc *LedgerUseCase) AddFunds(ctx context.Context, input AddFundsInput) (*domain.Account, error) {
	if err := domain.ValidateID(input.AccountID); err != nil {
		return nil, err
	}
	if err := domain.ValidateDelta(input.DeltaBalance, input.DeltaBonus); err != nil {
		return nil, err
	}

	var account *domain.Account

	err := uc.tx.run(ctx, func(ctx context.Context, tx Transaction) error {
		now := uc.clock.Now()

		acc, err := uc.accountRepo.ApplyDelta(ctx, tx, input.AccountID, input.DeltaBalance, input.DeltaBonus, now)
		if err != nil {
			return err
		}

		if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   acc.ID,
			AggregateType: domain.AggregateTypeAccount,
			EventType:     domain.EventTypeAccountAdjusted,
			Payload: map[string]any{
				"account_id":    acc.ID,
				"balance_delta": input.DeltaBalance.String(),
				"bonus_delta":   input.DeltaBonus.String(),
				"actor":         input.Actor,
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		account = acc
		return nil
	})
	if err != nil {
		uc.effects.ledgerError("add_funds", err)
		return nil, err
	}

	if uc.effects.Metrics != nil {
		uc.effects.Metrics.FundsAdjusted.Inc()
	}
	uc.effects.notify(ctx, domain.NewBalanceUpdateNotification(account.ID, input.DeltaBalance, input.DeltaBonus))
	uc.effects.publish(ctx, accountChange(account))

	return account, nil
}

func accountChange(acc *domain.Account) domain.ChangeEvent {
	return domain.ChangeEvent{
		Table:     "accounts",
		Type:      "update",
		AccountID: acc.ID,
		RecordID:  acc.ID,
		Data: map[string]any{
			"balance": acc.Balance.String(),
			"bonus":   acc.Bonus.String(),
		},
		At: changeTime(acc.UpdatedAt),
	}
}

func investmentChange(inv *domain.Investment) domain.ChangeEvent {
	return domain.ChangeEvent{
		Table:     "investments",
		Type:      "update",
		AccountID: inv.AccountID,
		RecordID:  inv.ID,
		Data: map[string]any{
			"status":         string(inv.Status),
			"credited_roi":   inv.CreditedRoi.String(),
			"credited_bonus": inv.CreditedBonus.String(),
		},
		At: changeTime(inv.UpdatedAt),
	}
}

func changeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
