package domain

import "time"

// RetentionCategory names a class of records the sweep may purge.
type RetentionCategory string

const (
	RetentionWithdrawalCodes RetentionCategory = "withdrawal_codes"
	RetentionNotifications   RetentionCategory = "notifications"
	RetentionChatMessages    RetentionCategory = "chat_messages"
	RetentionInvestments     RetentionCategory = "investments"
)

// RetentionRule pairs a category with its age threshold.
type RetentionRule struct {
	Category RetentionCategory
	MaxAge   time.Duration
}

// Cutoff returns the instant before which records of the rule are purgeable.
func (r RetentionRule) Cutoff(now time.Time) time.Time {
	return now.Add(-r.MaxAge)
}

// CategoryReport summarizes one category of a sweep.
type CategoryReport struct {
	Category RetentionCategory
	Matched  int64
	Deleted  int64
	Batches  int
}

// SweepReport summarizes a retention sweep run.
type SweepReport struct {
	DryRun           bool
	StartedAt        time.Time
	FinishedAt       time.Time
	Categories       []CategoryReport
	TotalMatched     int64
	TotalDeleted     int64
	BatchesCommitted int
}

// Add folds a category report into the totals.
func (r *SweepReport) Add(c CategoryReport) {
	r.Categories = append(r.Categories, c)
	r.TotalMatched += c.Matched
	r.TotalDeleted += c.Deleted
	r.BatchesCommitted += c.Batches
}

// DefaultRetentionRules returns the standard thresholds, in sweep order.
func DefaultRetentionRules() []RetentionRule {
	return []RetentionRule{
		{Category: RetentionWithdrawalCodes, MaxAge: 7 * 24 * time.Hour},
		{Category: RetentionNotifications, MaxAge: 30 * 24 * time.Hour},
		{Category: RetentionChatMessages, MaxAge: 90 * 24 * time.Hour},
		{Category: RetentionInvestments, MaxAge: 180 * 24 * time.Hour},
	}
}
