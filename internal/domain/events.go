package domain

import "time"

// Event types
const (
	EventTypeInvestmentActivated = "investment.activated"
	EventTypeInvestmentAccrued   = "investment.accrued"
	EventTypeInvestmentExpired   = "investment.expired"
	EventTypeLoanApproved        = "loan.approved"
	EventTypeLoanDeclined        = "loan.declined"
	EventTypeAccountAdjusted     = "account.adjusted"
	EventTypeCodeIssued          = "withdrawal_code.issued"
	EventTypeCodeRedeemed        = "withdrawal_code.redeemed"
	EventTypeWithdrawalRequested = "withdrawal.requested"
	EventTypeNotificationCreated = "notification.created"
)

// Aggregate types
const (
	AggregateTypeAccount        = "account"
	AggregateTypeInvestment     = "investment"
	AggregateTypeLoan           = "loan"
	AggregateTypeWithdrawalCode = "withdrawal_code"
	AggregateTypeWithdrawal     = "withdrawal"
	AggregateTypeNotification   = "notification"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// ChangeEvent is pushed to subscribers after a committed state change.
type ChangeEvent struct {
	Table     string         `json:"table"`
	Type      string         `json:"type"`
	AccountID string         `json:"account_id"`
	RecordID  string         `json:"record_id"`
	Data      map[string]any `json:"data,omitempty"`
	At        time.Time      `json:"at"`
}

// ChangeFilter selects change events for a subscriber. Empty fields match all.
type ChangeFilter struct {
	AccountID string
	Tables    []string
}

// Matches reports whether e passes the filter.
func (f ChangeFilter) Matches(e ChangeEvent) bool {
	if f.AccountID != "" && f.AccountID != e.AccountID {
		return false
	}
	if len(f.Tables) == 0 {
		return true
	}
	for _, t := range f.Tables {
		if t == e.Table {
			return true
		}
	}
	return false
}
