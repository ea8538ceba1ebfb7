package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/usecase"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	Bonus     decimal.Decimal `json:"bonus"`
	Total     decimal.Decimal `json:"total"`
	KYCStatus string          `json:"kyc_status"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Balance:   a.Balance,
		Bonus:     a.Bonus,
		Total:     a.Total(),
		KYCStatus: string(a.KYCStatus),
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// InvestmentResponse represents an investment in API responses.
type InvestmentResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	Plan          string          `json:"plan,omitempty"`
	Capital       decimal.Decimal `json:"capital"`
	RoiTarget     decimal.Decimal `json:"roi_target"`
	BonusTarget   decimal.Decimal `json:"bonus_target"`
	CreditedRoi   decimal.Decimal `json:"credited_roi"`
	CreditedBonus decimal.Decimal `json:"credited_bonus"`
	DurationDays  int             `json:"duration_days"`
	Status        string          `json:"status"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy    string          `json:"approved_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvestmentFromDomain converts domain investment to response.
func InvestmentFromDomain(i *domain.Investment) *InvestmentResponse {
	return &InvestmentResponse{
		ID:            i.ID,
		AccountID:     i.AccountID,
		Plan:          i.Plan,
		Capital:       i.Capital,
		RoiTarget:     i.RoiTarget,
		BonusTarget:   i.BonusTarget,
		CreditedRoi:   i.CreditedRoi,
		CreditedBonus: i.CreditedBonus,
		DurationDays:  i.DurationDays,
		Status:        string(i.Status),
		ApprovedAt:    i.ApprovedAt,
		ApprovedBy:    i.ApprovedBy,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// InvestmentsFromDomain converts domain investments to responses.
func InvestmentsFromDomain(investments []*domain.Investment) []*InvestmentResponse {
	result := make([]*InvestmentResponse, len(investments))
	for i, inv := range investments {
		result[i] = InvestmentFromDomain(inv)
	}
	return result
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	DecidedBy string          `json:"decided_by,omitempty"`
	DecidedAt *time.Time      `json:"decided_at,omitempty"`
}

// LoanFromDomain converts domain loan to response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:        l.ID,
		AccountID: l.AccountID,
		Amount:    l.Amount,
		Status:    string(l.Status),
		DecidedBy: l.DecidedBy,
		DecidedAt: l.DecidedAt,
	}
}

// WithdrawalCodeResponse represents an issued code. The code itself is only
// ever shown to the admin who issued it.
type WithdrawalCodeResponse struct {
	Code      string          `json:"code"`
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// WithdrawalCodeFromDomain converts domain code to response.
func WithdrawalCodeFromDomain(c *domain.WithdrawalCode) *WithdrawalCodeResponse {
	return &WithdrawalCodeResponse{
		Code:      c.Code,
		AccountID: c.AccountID,
		Amount:    c.Amount,
		ExpiresAt: c.ExpiresAt,
	}
}

// WithdrawalResponse represents a withdrawal request in API responses.
type WithdrawalResponse struct {
	ID            string           `json:"id"`
	AccountID     string           `json:"account_id"`
	Amount        decimal.Decimal  `json:"amount"`
	PaymentOption string           `json:"payment_option"`
	Fee           *decimal.Decimal `json:"fee"`
	FeeAsset      string           `json:"fee_asset,omitempty"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
}

// WithdrawalFromDomain converts domain withdrawal to response.
func WithdrawalFromDomain(w *domain.Withdrawal) *WithdrawalResponse {
	return &WithdrawalResponse{
		ID:            w.ID,
		AccountID:     w.AccountID,
		Amount:        w.Amount,
		PaymentOption: string(w.PaymentOption),
		Fee:           w.Fee,
		FeeAsset:      w.FeeAsset,
		Status:        string(w.Status),
		CreatedAt:     w.CreatedAt,
	}
}

// WithdrawalsFromDomain converts domain withdrawals to responses.
func WithdrawalsFromDomain(ws []*domain.Withdrawal) []*WithdrawalResponse {
	result := make([]*WithdrawalResponse, len(ws))
	for i, w := range ws {
		result[i] = WithdrawalFromDomain(w)
	}
	return result
}

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationsFromDomain converts domain notifications to responses.
func NotificationsFromDomain(ns []*domain.Notification) []*NotificationResponse {
	result := make([]*NotificationResponse, len(ns))
	for i, n := range ns {
		result[i] = &NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Kind:      string(n.Kind),
			CreatedAt: n.CreatedAt,
		}
	}
	return result
}

// AccrualResponse reports one accrual call.
type AccrualResponse struct {
	InvestmentID  string          `json:"investment_id"`
	ElapsedDays   int             `json:"elapsed_days"`
	DeltaRoi      decimal.Decimal `json:"delta_roi"`
	DeltaBonus    decimal.Decimal `json:"delta_bonus"`
	CreditedRoi   string          `json:"credited_roi"`
	CreditedBonus string          `json:"credited_bonus"`
	Expired       bool            `json:"expired"`
}

// AccrualFromUseCase converts an accrual result to response.
func AccrualFromUseCase(r *usecase.AccrualResult) *AccrualResponse {
	return &AccrualResponse{
		InvestmentID:  r.InvestmentID,
		ElapsedDays:   r.Accrual.ElapsedDays,
		DeltaRoi:      r.Accrual.DeltaRoi,
		DeltaBonus:    r.Accrual.DeltaBonus,
		CreditedRoi:   r.CreditedRoi,
		CreditedBonus: r.CreditedBonus,
		Expired:       r.Expired,
	}
}

// AccrualRunResponse summarizes an AccrueAll pass.
type AccrualRunResponse struct {
	Scanned    int64 `json:"scanned"`
	Credited   int64 `json:"credited"`
	Expired    int64 `json:"expired"`
	Failed     int64 `json:"failed"`
	DurationMs int64 `json:"duration_ms"`
}

// AccrualRunFromUseCase converts a run report to response.
func AccrualRunFromUseCase(r *usecase.AccrualRunReport) *AccrualRunResponse {
	return &AccrualRunResponse{
		Scanned:    r.Scanned,
		Credited:   r.Credited,
		Expired:    r.Expired,
		Failed:     r.Failed,
		DurationMs: r.Duration.Milliseconds(),
	}
}

// CategoryReportResponse is one category of a sweep report.
type CategoryReportResponse struct {
	Category string `json:"category"`
	Matched  int64  `json:"matched"`
	Deleted  int64  `json:"deleted"`
	Batches  int    `json:"batches"`
}

// SweepReportResponse represents a retention sweep summary.
type SweepReportResponse struct {
	DryRun           bool                      `json:"dry_run"`
	StartedAt        time.Time                 `json:"started_at"`
	FinishedAt       time.Time                 `json:"finished_at"`
	Categories       []*CategoryReportResponse `json:"categories"`
	TotalMatched     int64                     `json:"total_matched"`
	TotalDeleted     int64                     `json:"total_deleted"`
	BatchesCommitted int                       `json:"batches_committed"`
}

// SweepReportFromDomain converts a sweep report to response.
func SweepReportFromDomain(r *domain.SweepReport) *SweepReportResponse {
	categories := make([]*CategoryReportResponse, len(r.Categories))
	for i, c := range r.Categories {
		categories[i] = &CategoryReportResponse{
			Category: string(c.Category),
			Matched:  c.Matched,
			Deleted:  c.Deleted,
			Batches:  c.Batches,
		}
	}

	return &SweepReportResponse{
		DryRun:           r.DryRun,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		Categories:       categories,
		TotalMatched:     r.TotalMatched,
		TotalDeleted:     r.TotalDeleted,
		BatchesCommitted: r.BatchesCommitted,
	}
}

// NotifyExpiredResponse reports an expired-code notification pass.
type NotifyExpiredResponse struct {
	Notified int `json:"notified"`
}

// ConsistencyResponse represents a ledger audit.
type ConsistencyResponse struct {
	Consistent            bool      `json:"consistent"`
	NegativeAccounts      int64     `json:"negative_accounts"`
	OverCreditedInvests   int64     `json:"over_credited_investments"`
	ExpiredShortInvests   int64     `json:"expired_short_investments"`
	RedeemedWithoutRecord int64     `json:"redeemed_codes_without_withdrawal"`
	CheckedAt             time.Time `json:"checked_at"`
}

// ConsistencyFromUseCase converts an audit report to response.
func ConsistencyFromUseCase(r *usecase.ReconciliationReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:            r.Consistent,
		NegativeAccounts:      r.NegativeAccounts,
		OverCreditedInvests:   r.OverCreditedInvests,
		ExpiredShortInvests:   r.ExpiredShortInvests,
		RedeemedWithoutRecord: r.RedeemedWithoutRecord,
		CheckedAt:             r.CheckedAt,
	}
}

// ListInvestmentsResponse represents a page of investments.
type ListInvestmentsResponse struct {
	Investments []*InvestmentResponse `json:"investments"`
	Total       int64                 `json:"total"`
}

// ListWithdrawalsResponse represents a page of withdrawals.
type ListWithdrawalsResponse struct {
	Withdrawals []*WithdrawalResponse `json:"withdrawals"`
	Total       int64                 `json:"total"`
}

// ListNotificationsResponse represents a page of notifications.
type ListNotificationsResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
}
