package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/usecase"
)

// ApproveInvestmentRequest represents an admin approval. Omitted amounts fall
// back to the requested capital and the plan table.
type ApproveInvestmentRequest struct {
	Capital        decimal.Decimal `json:"capital"`
	RoiTarget      decimal.Decimal `json:"roi_target"`
	BonusTarget    decimal.Decimal `json:"bonus_target"`
	CreditBonusNow bool            `json:"credit_bonus_now"`
}

// ToUseCaseInput converts to use case input.
func (r *ApproveInvestmentRequest) ToUseCaseInput(investmentID, approvedBy string) usecase.ApproveInvestmentInput {
	return usecase.ApproveInvestmentInput{
		InvestmentID:   investmentID,
		Capital:        r.Capital,
		RoiTarget:      r.RoiTarget,
		BonusTarget:    r.BonusTarget,
		CreditBonusNow: r.CreditBonusNow,
		ApprovedBy:     approvedBy,
	}
}

// AddFundsRequest represents an administrative balance adjustment.
type AddFundsRequest struct {
	DeltaBalance decimal.Decimal `json:"delta_balance"`
	DeltaBonus   decimal.Decimal `json:"delta_bonus"`
}

// ToUseCaseInput converts to use case input.
func (r *AddFundsRequest) ToUseCaseInput(accountID, actor string) usecase.AddFundsInput {
	return usecase.AddFundsInput{
		AccountID:    accountID,
		DeltaBalance: r.DeltaBalance,
		DeltaBonus:   r.DeltaBonus,
		Actor:        actor,
	}
}

// IssueCodeRequest represents a request to issue a withdrawal code.
type IssueCodeRequest struct {
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	TTLSeconds int             `json:"ttl_seconds,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *IssueCodeRequest) ToUseCaseInput(issuedBy string) usecase.IssueCodeInput {
	return usecase.IssueCodeInput{
		AccountID: r.AccountID,
		Amount:    r.Amount,
		TTL:       time.Duration(r.TTLSeconds) * time.Second,
		IssuedBy:  issuedBy,
	}
}

// WithdrawalRequest represents an investor withdrawal.
type WithdrawalRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Code          string          `json:"code"`
	PaymentOption string          `json:"payment_option"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawalRequest) ToUseCaseInput(accountID string) usecase.WithdrawalInput {
	return usecase.WithdrawalInput{
		AccountID:     accountID,
		Amount:        r.Amount,
		Code:          r.Code,
		PaymentOption: domain.PaymentOption(r.PaymentOption),
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
