package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NotificationKind classifies a notification for the sink and for retention.
type NotificationKind string

const (
	NotificationBalanceUpdate         NotificationKind = "balance_update"
	NotificationInvestmentActive      NotificationKind = "investment_active"
	NotificationInvestmentComplete    NotificationKind = "investment_complete"
	NotificationLoanApproved          NotificationKind = "loan_approved"
	NotificationLoanDeclined          NotificationKind = "loan_declined"
	NotificationWithdrawalRequested   NotificationKind = "withdrawal_requested"
	NotificationWithdrawalCodeExpired NotificationKind = "withdrawal_code_expired"
)

// ProtectedNotificationKinds are never removed by the retention sweep.
var ProtectedNotificationKinds = []NotificationKind{
	NotificationWithdrawalCodeExpired,
	NotificationInvestmentComplete,
}

// Notification is a message emitted to an account holder after a ledger change.
type Notification struct {
	ID        string
	AccountID string
	Title     string
	Message   string
	Kind      NotificationKind
	CreatedAt time.Time
}

// NewBalanceUpdateNotification describes an administrative balance adjustment.
func NewBalanceUpdateNotification(accountID string, deltaBalance, deltaBonus decimal.Decimal) Notification {
	return Notification{
		AccountID: accountID,
		Title:     "Account Balance Updated",
		Message:   fmt.Sprintf("Your account was adjusted by $%s balance and $%s bonus", deltaBalance.StringFixed(2), deltaBonus.StringFixed(2)),
		Kind:      NotificationBalanceUpdate,
	}
}

// NewInvestmentActiveNotification announces an approved investment.
func NewInvestmentActiveNotification(inv *Investment) Notification {
	return Notification{
		AccountID: inv.AccountID,
		Title:     "Investment Activated",
		Message:   fmt.Sprintf("Your $%s %s investment plan has been activated", inv.Capital.String(), inv.Plan),
		Kind:      NotificationInvestmentActive,
	}
}

// NewInvestmentCompleteNotification announces that all payouts were credited.
func NewInvestmentCompleteNotification(inv *Investment) Notification {
	return Notification{
		AccountID: inv.AccountID,
		Title:     "Investment Completed",
		Message:   fmt.Sprintf("Your $%s %s investment plan has completed", inv.Capital.String(), inv.Plan),
		Kind:      NotificationInvestmentComplete,
	}
}

// NewLoanDecisionNotification announces an approved or declined loan.
func NewLoanDecisionNotification(loan *Loan) Notification {
	if loan.Status == LoanStatusApproved {
		return Notification{
			AccountID: loan.AccountID,
			Title:     "Loan Approved",
			Message:   fmt.Sprintf("Your loan of $%s has been approved", loan.Amount.String()),
			Kind:      NotificationLoanApproved,
		}
	}
	return Notification{
		AccountID: loan.AccountID,
		Title:     "Loan Declined",
		Message:   fmt.Sprintf("Your loan request of $%s has been declined", loan.Amount.String()),
		Kind:      NotificationLoanDeclined,
	}
}

// NewWithdrawalRequestedNotification confirms a withdrawal request.
func NewWithdrawalRequestedNotification(w *Withdrawal) Notification {
	return Notification{
		AccountID: w.AccountID,
		Title:     "Withdrawal Requested",
		Message:   fmt.Sprintf("Your withdrawal of $%s via %s is being processed", w.Amount.String(), w.PaymentOption),
		Kind:      NotificationWithdrawalRequested,
	}
}

// NewCodeExpiredNotification tells the holder an unused code lapsed.
func NewCodeExpiredNotification(code *WithdrawalCode) Notification {
	return Notification{
		AccountID: code.AccountID,
		Title:     "Withdrawal Code Expired",
		Message:   fmt.Sprintf("Your withdrawal code for $%s expired before it was used", code.Amount.String()),
		Kind:      NotificationWithdrawalCodeExpired,
	}
}
